package janitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/gguarino/torrentjanitor/qbittorrent"
)

// ProtectFilter is an optional, user-supplied boolean expression evaluated
// against each torrent. A match protects the torrent from every removal
// rule, same as a protected category.
type ProtectFilter struct {
	expression string
	program    *vm.Program
}

// CompileProtectFilter compiles a protection expression. An empty
// expression is a configuration error; leave the setting unset instead.
func CompileProtectFilter(expression string) (*ProtectFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("empty protect filter expression")
	}

	program, err := expr.Compile(expression,
		expr.Env(protectEnv(&qbittorrent.TorrentInfo{}, time.Time{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile protect filter %q: %w", expression, err)
	}

	return &ProtectFilter{
		expression: expression,
		program:    program,
	}, nil
}

// Matches evaluates the filter against one torrent. Runtime errors count
// as no match: a broken expression must never protect everything.
func (f *ProtectFilter) Matches(t *qbittorrent.TorrentInfo, now time.Time) bool {
	out, err := expr.Run(f.program, protectEnv(t, now))
	if err != nil {
		return false
	}
	matched, ok := out.(bool)
	return ok && matched
}

// String returns the source expression.
func (f *ProtectFilter) String() string {
	return f.expression
}

func protectEnv(t *qbittorrent.TorrentInfo, now time.Time) map[string]any {
	return map[string]any{
		"Hash":     t.Hash,
		"Name":     t.Name,
		"State":    string(t.State),
		"Category": t.Category,
		"Tracker":  t.Tracker,
		"Tags":     t.Tags,
		"Size":     t.Size,
		"Progress": t.Progress,
		"Ratio":    t.Ratio,
		"NumSeeds": t.NumSeeds,
		"DlSpeed":  t.DlSpeed,
		"AgeHours": t.Age(now).Hours(),
	}
}
