package diffview

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"contextlab/internal/core/domain"
	"contextlab/internal/prompt"
)

// Snapshot is one captured prompt (or model reply) in an evolution chain.
type Snapshot struct {
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Meta      string    `json:"meta,omitempty"`
	Tokens    int       `json:"tokens"`
	CreatedAt time.Time `json:"created_at"`
}

// Response is a recorded model reply for a named snapshot, with its
// schema-check score.
type Response struct {
	Snapshot  string    `json:"snapshot"`
	Content   string    `json:"content"`
	Score     int       `json:"score"`
	Reason    string    `json:"reason,omitempty"`
	Tokens    int       `json:"tokens"`
	CreatedAt time.Time `json:"created_at"`
}

// Visualizer accumulates snapshots and renders diffs, similarity scores
// and an evolution table over them.
type Visualizer struct {
	snapshots []Snapshot
	responses []Response
	now       func() time.Time
}

func NewVisualizer() *Visualizer {
	return &Visualizer{now: time.Now}
}

func (v *Visualizer) Add(name, content, meta string) Snapshot {
	snap := Snapshot{
		Name:      name,
		Content:   content,
		Meta:      meta,
		Tokens:    prompt.EstimateTokens(content),
		CreatedAt: v.now(),
	}
	v.snapshots = append(v.snapshots, snap)
	return snap
}

// AddStrategy captures the prompt a strategy builds for a sentence.
func (v *Visualizer) AddStrategy(s domain.Strategy, sentence string) Snapshot {
	return v.Add(string(s), prompt.Build(s, sentence), "strategy prompt")
}

func (v *Visualizer) Snapshots() []Snapshot {
	out := make([]Snapshot, len(v.snapshots))
	copy(out, v.snapshots)
	return out
}

// AddResponse records a model reply against a named snapshot.
func (v *Visualizer) AddResponse(snapshot, content string, score int, reason string) (Response, error) {
	if _, ok := v.find(snapshot); !ok {
		return Response{}, fmt.Errorf("add response: %w: snapshot %q", domain.ErrInvalidInput, snapshot)
	}
	resp := Response{
		Snapshot:  snapshot,
		Content:   content,
		Score:     score,
		Reason:    reason,
		Tokens:    prompt.EstimateTokens(content),
		CreatedAt: v.now(),
	}
	v.responses = append(v.responses, resp)
	return resp, nil
}

func (v *Visualizer) Responses() []Response {
	out := make([]Response, len(v.responses))
	copy(out, v.responses)
	return out
}

// WriteResponses prints a comparison table of recorded replies.
func (v *Visualizer) WriteResponses(w io.Writer) error {
	if len(v.responses) == 0 {
		return fmt.Errorf("responses: %w: none recorded", domain.ErrInvalidInput)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SNAPSHOT\tSCORE\tTOKENS\tREASON")
	for _, r := range v.responses {
		reason := r.Reason
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", r.Snapshot, r.Score, r.Tokens, reason)
	}
	return tw.Flush()
}

func (v *Visualizer) find(name string) (Snapshot, bool) {
	for _, s := range v.snapshots {
		if s.Name == name {
			return s, true
		}
	}
	return Snapshot{}, false
}

// Diff returns a unified diff between two named snapshots.
func (v *Visualizer) Diff(from, to string) (string, error) {
	a, ok := v.find(from)
	if !ok {
		return "", fmt.Errorf("diff: %w: snapshot %q", domain.ErrInvalidInput, from)
	}
	b, ok := v.find(to)
	if !ok {
		return "", fmt.Errorf("diff: %w: snapshot %q", domain.ErrInvalidInput, to)
	}

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a.Content),
		B:        difflib.SplitLines(b.Content),
		FromFile: a.Name,
		ToFile:   b.Name,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("diff %s..%s: %w", from, to, err)
	}
	return text, nil
}

// Similarity returns a character-level ratio in [0,1] between two named
// snapshots. Character granularity keeps CJK text comparable, where a
// whole review can be a single "word".
func (v *Visualizer) Similarity(from, to string) (float64, error) {
	a, ok := v.find(from)
	if !ok {
		return 0, fmt.Errorf("similarity: %w: snapshot %q", domain.ErrInvalidInput, from)
	}
	b, ok := v.find(to)
	if !ok {
		return 0, fmt.Errorf("similarity: %w: snapshot %q", domain.ErrInvalidInput, to)
	}
	return Ratio(a.Content, b.Content), nil
}

// Ratio is the raw character-level similarity of two strings.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// WriteDiff renders a unified diff with +/- lines colorized.
func (v *Visualizer) WriteDiff(w io.Writer, from, to string) error {
	text, err := v.Diff(from, to)
	if err != nil {
		return err
	}
	if text == "" {
		fmt.Fprintln(w, "no differences")
		return nil
	}

	add := color.New(color.FgGreen)
	del := color.New(color.FgRed)
	head := color.New(color.FgCyan)
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			head.Fprintln(w, line)
		case strings.HasPrefix(line, "+"):
			add.Fprintln(w, line)
		case strings.HasPrefix(line, "-"):
			del.Fprintln(w, line)
		default:
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

// WriteEvolution prints a table of all snapshots: token counts, growth
// relative to the first snapshot and similarity to the previous one.
func (v *Visualizer) WriteEvolution(w io.Writer) error {
	if len(v.snapshots) == 0 {
		return fmt.Errorf("evolution: %w: no snapshots", domain.ErrInvalidInput)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTOKENS\tGROWTH\tSIMILARITY\tMETA")
	base := v.snapshots[0].Tokens
	for i, s := range v.snapshots {
		growth := "-"
		if i > 0 && base > 0 {
			growth = fmt.Sprintf("%+.0f%%", float64(s.Tokens-base)/float64(base)*100)
		}
		sim := "-"
		if i > 0 {
			sim = fmt.Sprintf("%.2f", Ratio(v.snapshots[i-1].Content, s.Content))
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", s.Name, s.Tokens, growth, sim, s.Meta)
	}
	return tw.Flush()
}

// ExportJSON writes the snapshot chain with pairwise similarity scores.
func (v *Visualizer) ExportJSON(w io.Writer) error {
	type link struct {
		From       string  `json:"from"`
		To         string  `json:"to"`
		Similarity float64 `json:"similarity"`
	}
	payload := struct {
		Snapshots []Snapshot `json:"snapshots"`
		Responses []Response `json:"responses,omitempty"`
		Links     []link     `json:"links"`
	}{Snapshots: v.Snapshots(), Responses: v.Responses()}

	for i := 1; i < len(v.snapshots); i++ {
		payload.Links = append(payload.Links, link{
			From:       v.snapshots[i-1].Name,
			To:         v.snapshots[i].Name,
			Similarity: Ratio(v.snapshots[i-1].Content, v.snapshots[i].Content),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("export snapshots: %w", err)
	}
	return nil
}
