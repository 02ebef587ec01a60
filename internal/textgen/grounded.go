package textgen

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-scout/internal/model"
	"github.com/sells-group/lead-scout/pkg/google"
)

type grounded struct {
	next   Service
	places google.Client
}

// WithPlaces adds map citations from Google Places to requests that ask
// for map grounding. The place lookup runs alongside generation; its
// failure only costs the map citations. Map citations come first in the
// merged list.
func WithPlaces(next Service, places google.Client) Service {
	if places == nil {
		return next
	}
	return &grounded{next: next, places: places}
}

func (g *grounded) Generate(ctx context.Context, req Request) (*Response, error) {
	if !req.Grounding.Maps || req.PlaceQuery == "" {
		return g.next.Generate(ctx, req)
	}

	var (
		resp     *Response
		mapCites []model.Citation
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		r, err := g.next.Generate(egCtx, req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	eg.Go(func() error {
		mapCites = g.lookup(egCtx, req)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := *resp
	out.Citations = dedupCitations(append(mapCites, resp.Citations...))
	return &out, nil
}

func (g *grounded) lookup(ctx context.Context, req Request) []model.Citation {
	searchReq := google.TextSearchRequest{
		Query:      req.PlaceQuery,
		Lat:        req.Lat,
		Lng:        req.Lng,
		MaxResults: req.MaxPlaces,
	}
	if req.RadiusKM > 0 {
		searchReq.RadiusM = float64(req.RadiusKM) * 1000
	}

	res, err := g.places.TextSearch(ctx, searchReq)
	if err != nil {
		zap.L().Warn("textgen: place lookup failed, continuing without map citations",
			zap.String("query", req.PlaceQuery),
			zap.Error(err),
		)
		return nil
	}

	cites := make([]model.Citation, 0, len(res.Places))
	for _, p := range res.Places {
		uri := p.GoogleMapsURI
		if uri == "" {
			continue
		}
		cites = append(cites, model.Citation{
			Kind:    model.CitationMap,
			Title:   p.DisplayName.Text,
			URI:     uri,
			PlaceID: p.ID,
		})
	}
	return cites
}
