// Package crmsync mirrors the local lead collection into a Notion database
// and reads status changes made there back.
package crmsync

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-scout/internal/model"
	"github.com/sells-group/lead-scout/pkg/notion"
)

// Notion property names of the lead database.
const (
	PropName     = "Name"
	PropLeadID   = "Lead ID"
	PropStatus   = "Status"
	PropScore    = "Score"
	PropLabel    = "Label"
	PropCategory = "Category"
	PropAddress  = "Address"
	PropCity     = "City"
	PropPhone    = "Phone"
	PropEmail    = "Email"
	PropWebsite  = "Website"
	PropRating   = "Rating"
	PropReviews  = "Reviews"
	PropAnalysis = "Analysis"
	PropNotes    = "Notes"
	PropSource   = "Source Link"
)

// notionTextLimit is the per-rich-text-object character cap enforced by
// the Notion API.
const notionTextLimit = 2000

// Result summarises one push.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// StatusChange is a lead whose status was edited in Notion.
type StatusChange struct {
	LeadID string
	PageID string
	Status model.Status
}

// Syncer pushes leads to and pulls statuses from one Notion database.
type Syncer struct {
	client notion.Client
	dbID   string
}

// New creates a Syncer for the database dbID.
func New(client notion.Client, dbID string) *Syncer {
	return &Syncer{client: client, dbID: dbID}
}

// Push upserts every lead as a page keyed by the Lead ID property. A
// failure on one lead is logged and counted and does not stop the rest;
// only listing the existing pages is fatal.
func (s *Syncer) Push(ctx context.Context, leads []model.Lead) (*Result, error) {
	log := zap.L().With(zap.String("component", "crmsync"), zap.String("database", s.dbID))

	pages, err := notion.QueryAll(ctx, s.client, s.dbID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "crmsync: list pages")
	}
	existing := notion.IndexByText(pages, PropLeadID)

	res := &Result{}
	for _, l := range leads {
		if ctx.Err() != nil {
			return res, eris.Wrap(ctx.Err(), "crmsync: push")
		}
		props := Properties(l)

		if pageID, ok := existing[l.ID]; ok {
			_, err = s.client.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{Properties: props})
			if err != nil {
				res.Failed++
				log.Warn("crmsync: update page failed", zap.String("lead_id", l.ID), zap.Error(err))
				continue
			}
			res.Updated++
			continue
		}

		page, err := s.client.CreatePage(ctx, &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(s.dbID),
			},
			Properties: props,
		})
		if err != nil {
			res.Failed++
			log.Warn("crmsync: create page failed", zap.String("lead_id", l.ID), zap.Error(err))
			continue
		}
		existing[l.ID] = string(page.ID)
		res.Created++
	}

	log.Info("crmsync: push complete",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

// PullStatuses returns the leads whose Notion status differs from the
// local one. Pages for unknown leads or with unrecognised statuses are
// skipped.
func (s *Syncer) PullStatuses(ctx context.Context, leads []model.Lead) ([]StatusChange, error) {
	pages, err := notion.QueryAll(ctx, s.client, s.dbID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "crmsync: list pages")
	}

	local := make(map[string]model.Status, len(leads))
	for _, l := range leads {
		local[l.ID] = l.Status
	}

	var changes []StatusChange
	for _, p := range pages {
		id := notion.PlainText(p.Properties[PropLeadID])
		current, ok := local[id]
		if !ok {
			continue
		}
		remote := notion.PlainText(p.Properties[PropStatus])
		if remote == "" {
			continue
		}
		status, err := model.ParseStatus(remote)
		if err != nil {
			zap.L().Debug("crmsync: ignoring unknown status",
				zap.String("lead_id", id), zap.String("status", remote))
			continue
		}
		if status != current {
			changes = append(changes, StatusChange{LeadID: id, PageID: string(p.ID), Status: status})
		}
	}
	return changes, nil
}

// Properties maps a lead onto the lead database schema. Empty optional
// fields are omitted so they do not blank values edited in Notion.
func Properties(l model.Lead) notionapi.Properties {
	props := notionapi.Properties{
		PropName:    notion.Title(truncate(l.Name)),
		PropLeadID:  notion.Text(l.ID),
		PropStatus:  notion.Select(string(l.Status)),
		PropScore:   notion.Number(float64(l.Score.Total)),
		PropReviews: notion.Number(float64(l.Reviews)),
	}
	if l.Score.Label != "" {
		props[PropLabel] = notion.Select(string(l.Score.Label))
	}

	text := map[string]string{
		PropCategory: l.Category,
		PropAddress:  l.Address,
		PropCity:     l.City,
		PropRating:   l.Rating,
		PropAnalysis: l.Analysis,
		PropNotes:    l.Notes,
	}
	for name, v := range text {
		if v != "" {
			props[name] = notion.Text(truncate(v))
		}
	}

	if l.Phone != "" {
		props[PropPhone] = notion.Phone(l.Phone)
	}
	if l.Email != "" {
		props[PropEmail] = notion.Email(l.Email)
	}
	if l.Website != "" && l.Website != "N/A" {
		props[PropWebsite] = notion.URL(l.Website)
	}
	if l.SourceURL != "" {
		props[PropSource] = notion.URL(l.SourceURL)
	}
	return props
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= notionTextLimit {
		return s
	}
	return string(r[:notionTextLimit-1]) + "…"
}
