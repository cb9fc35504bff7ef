package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/model"
)

// Property names expected on the lead database.
const (
	PropName   = "Name"
	PropEmail  = "Email"
	PropPhone  = "Phone"
	PropScore  = "Score"
	PropStatus = "Status"
	PropReason = "Reason"
)

// CheckDatabase confirms the integration can read dbID by fetching at most
// one page.
func CheckDatabase(ctx context.Context, c Client, dbID string) error {
	if dbID == "" {
		return eris.New("notion: lead database id is empty")
	}
	if _, err := c.QueryDatabase(ctx, dbID, &notionapi.DatabaseQueryRequest{PageSize: 1}); err != nil {
		return eris.Wrap(err, "notion: check database")
	}
	return nil
}

// PushLeads creates one page per lead in dbID, in order. It returns the
// number of pages created before any error or cancellation.
func PushLeads(ctx context.Context, c Client, dbID string, leads []model.NormalizedLead) (int, error) {
	created := 0
	for _, l := range leads {
		if ctx.Err() != nil {
			return created, eris.Wrap(ctx.Err(), "notion: push leads cancelled")
		}

		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(dbID),
			},
			Properties: LeadProperties(l),
		}
		if _, err := c.CreatePage(ctx, req); err != nil {
			return created, eris.Wrapf(err, "notion: create page for %s", l.Email)
		}
		created++
	}

	zap.L().Info("notion: leads pushed", zap.String("database", dbID), zap.Int("created", created))
	return created, nil
}

// LeadProperties maps a cleaned lead onto the lead database's columns.
func LeadProperties(l model.NormalizedLead) notionapi.Properties {
	return notionapi.Properties{
		PropName: notionapi.TitleProperty{
			Type:  notionapi.PropertyTypeTitle,
			Title: richText(l.Name),
		},
		PropEmail: notionapi.EmailProperty{
			Type:  notionapi.PropertyTypeEmail,
			Email: l.Email,
		},
		PropPhone: notionapi.PhoneNumberProperty{
			Type:        notionapi.PropertyTypePhoneNumber,
			PhoneNumber: l.Phone,
		},
		PropScore: notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: float64(l.Score),
		},
		PropStatus: notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: string(l.Tier)},
		},
		PropReason: notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(l.Rationale),
		},
	}
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
	}
}
