// Package transfer reads and writes the JSON export envelope for saved texts.
package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/verte-zerg/recite/internal/model"
)

// FormatVersion is written into every export.
const FormatVersion = 1

// Transfer errors.
var (
	ErrNothingToExport = errors.New("no texts to export")
	ErrInvalidFormat   = errors.New("invalid export file: missing items array")
)

// Envelope is the export file layout.
type Envelope struct {
	Version    int          `json:"version"`
	ExportedAt time.Time    `json:"exportedAt"`
	Items      []model.Text `json:"items"`
}

// Export writes texts as an indented JSON envelope.
func Export(w io.Writer, texts []model.Text, now time.Time) error {
	if len(texts) == 0 {
		return ErrNothingToExport
	}
	env := Envelope{
		Version:    FormatVersion,
		ExportedAt: now.UTC(),
		Items:      texts,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// rawEnvelope tolerates malformed items so a single bad entry is skipped
// rather than failing the whole import.
type rawEnvelope struct {
	Version int               `json:"version"`
	Items   []json.RawMessage `json:"items"`
}

type rawText struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Decode parses an export file. Items that are not objects with string
// fields are dropped; unparsable timestamps are treated as unset.
func Decode(r io.Reader) (Envelope, error) {
	var raw rawEnvelope
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Envelope{}, ErrInvalidFormat
		}
		return Envelope{}, fmt.Errorf("failed to decode import: %w", err)
	}
	if raw.Items == nil {
		return Envelope{}, ErrInvalidFormat
	}
	env := Envelope{Version: raw.Version, Items: make([]model.Text, 0, len(raw.Items))}
	for _, item := range raw.Items {
		var rt rawText
		if err := json.Unmarshal(item, &rt); err != nil {
			continue
		}
		env.Items = append(env.Items, model.Text{
			ID:        rt.ID,
			Title:     rt.Title,
			Content:   rt.Content,
			CreatedAt: parseTimestamp(rt.CreatedAt),
			UpdatedAt: parseTimestamp(rt.UpdatedAt),
		})
	}
	return env, nil
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// Merge combines existing and incoming texts by id. Incoming items without
// an id or title are skipped. On conflict the more recently modified text
// wins; ties go to the incoming one. The result is sorted by id.
func Merge(existing, incoming []model.Text) []model.Text {
	byID := make(map[string]model.Text, len(existing)+len(incoming))
	for _, t := range existing {
		byID[t.ID] = t
	}
	for _, in := range incoming {
		if in.ID == "" || in.Title == "" {
			continue
		}
		cur, ok := byID[in.ID]
		if !ok || !in.LastModified().Before(cur.LastModified()) {
			byID[in.ID] = in
		}
	}
	out := make([]model.Text, 0, len(byID))
	for _, t := range byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Changed returns the merged texts that differ from existing.
func Changed(existing, merged []model.Text) []model.Text {
	byID := make(map[string]model.Text, len(existing))
	for _, t := range existing {
		byID[t.ID] = t
	}
	var out []model.Text
	for _, t := range merged {
		cur, ok := byID[t.ID]
		if ok && cur.Title == t.Title && cur.Content == t.Content && cur.LastModified().Equal(t.LastModified()) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// DefaultExportName builds a timestamped export file name.
func DefaultExportName(now time.Time) string {
	return "recite-texts-" + now.UTC().Format("2006-01-02-15-04-05") + ".json"
}
