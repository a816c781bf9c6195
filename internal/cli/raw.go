package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/watchfire-io/cursoragents/internal/models"
)

// responseLog records the raw bodies of successful API responses in
// arrival order.
type responseLog struct {
	bodies [][]byte
}

func (l *responseLog) record(body []byte) {
	l.bodies = append(l.bodies, bytes.Clone(body))
}

// last returns the most recent body, or nil.
func (l *responseLog) last() []byte {
	if len(l.bodies) == 0 {
		return nil
	}
	return l.bodies[len(l.bodies)-1]
}

// printRaw indents body and writes it unchanged otherwise. fallback is
// encoded instead when body is empty or not JSON.
func (p *printer) printRaw(body []byte, fallback any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return p.printJSON(fallback)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		return p.printJSON(fallback)
	}
	buf.WriteByte('\n')
	_, err := p.out.Write(buf.Bytes())
	return err
}

// rawListPage is GET /v0/agents with agents left undecoded.
type rawListPage struct {
	Agents     []json.RawMessage `json:"agents"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

// rawAgents rebuilds a list response from recorded pages. Only agents
// in keep are emitted, in keep's order, each exactly as the server sent
// it.
func rawAgents(pages [][]byte, keep []models.Agent, nextCursor string) ([]byte, error) {
	byID := make(map[string]json.RawMessage)
	for _, body := range pages {
		var page rawListPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decoding agents page: %w", err)
		}
		for _, raw := range page.Agents {
			var ref struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(raw, &ref); err != nil {
				return nil, fmt.Errorf("decoding agent: %w", err)
			}
			if _, ok := byID[ref.ID]; !ok {
				byID[ref.ID] = raw
			}
		}
	}

	out := rawListPage{Agents: make([]json.RawMessage, 0, len(keep)), NextCursor: nextCursor}
	for _, agent := range keep {
		raw, ok := byID[agent.ID]
		if !ok {
			return nil, fmt.Errorf("agent %s missing from recorded pages", agent.ID)
		}
		out.Agents = append(out.Agents, raw)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
