package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// ReviewEntry is one flagged lead/client pair bound for the triage board.
type ReviewEntry struct {
	LeadKey       string
	LeadName      string
	MatchedClient string
	Similarity    float64
}

// PushReview mirrors review entries into the Notion database, one page per
// distinct lead key. Pages that already exist (matched on the "Lead Key"
// property) get their match columns refreshed; new pages are created with
// Status "Needs Review". Returns the number of pages created and updated.
func PushReview(ctx context.Context, c Client, dbID string, entries []ReviewEntry) (created, updated int, err error) {
	if len(entries) == 0 {
		return 0, 0, nil
	}

	index, err := leadKeyIndex(ctx, c, dbID)
	if err != nil {
		return 0, 0, err
	}

	for _, e := range entries {
		if ctx.Err() != nil {
			return created, updated, eris.Wrap(ctx.Err(), "notion: push review cancelled")
		}

		if pageID, ok := index[e.LeadKey]; ok {
			req := &notionapi.PageUpdateRequest{Properties: entryProperties(e)}
			if _, err := c.UpdatePage(ctx, pageID, req); err != nil {
				return created, updated, eris.Wrap(err, fmt.Sprintf("notion: refresh review page for %s", e.LeadKey))
			}
			updated++
			continue
		}

		props := entryProperties(e)
		props["Status"] = notionapi.StatusProperty{
			Status: notionapi.Status{Name: "Needs Review"},
		}
		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(dbID),
			},
			Properties: props,
		}
		page, err := c.CreatePage(ctx, req)
		if err != nil {
			return created, updated, eris.Wrap(err, fmt.Sprintf("notion: create review page for %s", e.LeadKey))
		}
		index[e.LeadKey] = string(page.ID)
		created++
	}

	return created, updated, nil
}

// entryProperties builds the match columns shared by create and refresh.
// Status is set only on create; a re-push must not reset a page the team
// already triaged.
func entryProperties(e ReviewEntry) notionapi.Properties {
	return notionapi.Properties{
		"Lead Name": notionapi.TitleProperty{
			Type:  notionapi.PropertyTypeTitle,
			Title: richText(e.LeadName),
		},
		"Lead Key": notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(e.LeadKey),
		},
		"Matched Client": notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(e.MatchedClient),
		},
		"Similarity": notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: e.Similarity,
		},
	}
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: content}},
	}
}
