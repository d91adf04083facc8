package update

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// ScriptUpdater runs "sh <script> <fqdn> <address>". Exit status 0 is
// success.
type ScriptUpdater struct {
	script string
	dir    string
	logger zerolog.Logger
}

// NewScriptUpdater returns an updater running script from dir.
func NewScriptUpdater(script, dir string, logger zerolog.Logger) *ScriptUpdater {
	return &ScriptUpdater{script: script, dir: dir, logger: logger}
}

func (s *ScriptUpdater) Update(ctx context.Context, fqdn, address string) error {
	cmd := exec.CommandContext(ctx, "sh", s.script, fqdn, address)
	cmd.Dir = s.dir

	out, err := cmd.CombinedOutput()
	s.logger.Debug().
		Str("script", s.script).
		Str("fqdn", fqdn).
		Str("output", strings.TrimSpace(string(out))).
		Msg("dns script finished")
	if err != nil {
		return fmt.Errorf("dns script %s: %w", s.script, err)
	}
	return nil
}
