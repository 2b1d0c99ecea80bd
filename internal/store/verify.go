// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
)

// VerifyIntegrity runs sqlite's integrity check and looks for orphaned
// rows the foreign keys should have prevented.
func (s *Store) VerifyIntegrity(ctx context.Context) error {
	var result string
	if err := s.db.QueryRowContext(ctx, `PRAGMA integrity_check`).Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	orphans := []struct {
		label string
		query string
	}{
		{"models without make", `SELECT COUNT(*) FROM models m LEFT JOIN makes mk ON mk.id = m.make_id WHERE mk.id IS NULL`},
		{"trims without model", `SELECT COUNT(*) FROM trims t LEFT JOIN models m ON m.id = t.model_id WHERE m.id IS NULL`},
		{"spec rows without trim", `SELECT COUNT(*) FROM trim_specs ts LEFT JOIN trims t ON t.id = ts.trim_id WHERE t.id IS NULL`},
	}
	for _, o := range orphans {
		var n int
		if err := s.db.QueryRowContext(ctx, o.query).Scan(&n); err != nil {
			return fmt.Errorf("%s: %w", o.label, err)
		}
		if n > 0 {
			return fmt.Errorf("found %d %s", n, o.label)
		}
	}
	return nil
}
