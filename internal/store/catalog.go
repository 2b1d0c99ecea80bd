// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexx-ftw/km77-scraper/internal/catalog"
)

const (
	kindSpec   = "spec"
	kindOption = "option"
)

// UpsertMake inserts or updates a make.
func (s *Store) UpsertMake(ctx context.Context, m *catalog.Make) error {
	query := `
	INSERT INTO makes (id, name, slug, url, scraped_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		slug = excluded.slug,
		url = excluded.url,
		scraped_at = excluded.scraped_at
	`
	_, err := s.db.ExecContext(ctx, query, m.ID, m.Name, m.Slug, m.URL, time.Now().UTC().Format(time.RFC3339))
	return err
}

// UpsertModel inserts or updates a model under its make.
func (s *Store) UpsertModel(ctx context.Context, m *catalog.Model) error {
	query := `
	INSERT INTO models (id, make_id, name, slug, year, url)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		slug = excluded.slug,
		year = excluded.year,
		url = excluded.url
	`
	_, err := s.db.ExecContext(ctx, query, m.ID, m.MakeID, m.Name, m.Slug, m.Year, m.URL)
	return err
}

// UpsertTrim inserts or updates a trim and replaces its spec rows.
func (s *Store) UpsertTrim(ctx context.Context, t *catalog.Trim) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := upsertTrimTx(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertTrimTx(ctx context.Context, tx *sql.Tx, t *catalog.Trim) error {
	query := `
	INSERT INTO trims (id, model_id, name, slug, production, url)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		slug = excluded.slug,
		production = excluded.production,
		url = excluded.url
	`
	if _, err := tx.ExecContext(ctx, query, t.ID, t.ModelID, t.Name, t.Slug, t.Production, t.URL); err != nil {
		return fmt.Errorf("upsert trim %s: %w", t.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM trim_specs WHERE trim_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clear specs for %s: %w", t.Name, err)
	}

	insert := `INSERT INTO trim_specs (trim_id, kind, grp, name, value) VALUES (?, ?, ?, ?, ?)`
	for kind, groups := range map[string][]catalog.SpecGroup{kindSpec: t.Specs, kindOption: t.Options} {
		for _, g := range groups {
			for name, value := range g.Values {
				if _, err := tx.ExecContext(ctx, insert, t.ID, kind, g.Title, name, value); err != nil {
					return fmt.Errorf("insert spec row for %s: %w", t.Name, err)
				}
			}
		}
	}
	return nil
}

// SaveCatalog writes an entire catalog in one transaction.
func (s *Store) SaveCatalog(ctx context.Context, makes []*catalog.Make) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, mk := range makes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO makes (id, name, slug, url, scraped_at) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug, url = excluded.url, scraped_at = excluded.scraped_at`,
			mk.ID, mk.Name, mk.Slug, mk.URL, now); err != nil {
			return fmt.Errorf("save make %s: %w", mk.Name, err)
		}
		for _, mdl := range mk.Models {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO models (id, make_id, name, slug, year, url) VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug, year = excluded.year, url = excluded.url`,
				mdl.ID, mdl.MakeID, mdl.Name, mdl.Slug, mdl.Year, mdl.URL); err != nil {
				return fmt.Errorf("save model %s: %w", mdl.Name, err)
			}
			for _, tr := range mdl.Trims {
				if err := upsertTrimTx(ctx, tx, tr); err != nil {
					return err
				}
			}
		}
	}
	return tx.Commit()
}

// LoadCatalog reads the full catalog back, specs included.
func (s *Store) LoadCatalog(ctx context.Context) ([]*catalog.Make, error) {
	makes, err := s.loadMakes(ctx)
	if err != nil {
		return nil, err
	}
	byMake := make(map[string]*catalog.Make, len(makes))
	for _, mk := range makes {
		byMake[mk.ID] = mk
	}

	models, err := s.loadModels(ctx)
	if err != nil {
		return nil, err
	}
	byModel := make(map[string]*catalog.Model, len(models))
	for _, mdl := range models {
		byModel[mdl.ID] = mdl
		if mk, ok := byMake[mdl.MakeID]; ok {
			mk.Models = append(mk.Models, mdl)
		}
	}

	if err := s.loadTrims(ctx, byModel); err != nil {
		return nil, err
	}
	return makes, nil
}

func (s *Store) loadMakes(ctx context.Context) ([]*catalog.Make, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug, url FROM makes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var makes []*catalog.Make
	for rows.Next() {
		mk := &catalog.Make{}
		if err := rows.Scan(&mk.ID, &mk.Name, &mk.Slug, &mk.URL); err != nil {
			return nil, err
		}
		makes = append(makes, mk)
	}
	return makes, rows.Err()
}

func (s *Store) loadModels(ctx context.Context) ([]*catalog.Model, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, make_id, name, slug, year, url FROM models ORDER BY make_id, name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var models []*catalog.Model
	for rows.Next() {
		mdl := &catalog.Model{}
		if err := rows.Scan(&mdl.ID, &mdl.MakeID, &mdl.Name, &mdl.Slug, &mdl.Year, &mdl.URL); err != nil {
			return nil, err
		}
		models = append(models, mdl)
	}
	return models, rows.Err()
}

func (s *Store) loadTrims(ctx context.Context, byModel map[string]*catalog.Model) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, model_id, name, slug, production, url FROM trims ORDER BY model_id, name`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	byTrim := make(map[string]*catalog.Trim)
	for rows.Next() {
		tr := &catalog.Trim{}
		if err := rows.Scan(&tr.ID, &tr.ModelID, &tr.Name, &tr.Slug, &tr.Production, &tr.URL); err != nil {
			return err
		}
		byTrim[tr.ID] = tr
		if mdl, ok := byModel[tr.ModelID]; ok {
			mdl.Trims = append(mdl.Trims, tr)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return s.loadSpecs(ctx, byTrim)
}

func (s *Store) loadSpecs(ctx context.Context, byTrim map[string]*catalog.Trim) error {
	rows, err := s.db.QueryContext(ctx, `SELECT trim_id, kind, grp, name, value FROM trim_specs ORDER BY trim_id, kind, grp, name`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	type groupKey struct {
		trimID, kind, title string
	}
	groups := make(map[groupKey]*catalog.SpecGroup)

	for rows.Next() {
		var trimID, kind, title, name, value string
		if err := rows.Scan(&trimID, &kind, &title, &name, &value); err != nil {
			return err
		}
		tr, ok := byTrim[trimID]
		if !ok {
			continue
		}

		key := groupKey{trimID, kind, title}
		g, ok := groups[key]
		if !ok {
			var target *[]catalog.SpecGroup
			if kind == kindOption {
				target = &tr.Options
			} else {
				target = &tr.Specs
			}
			*target = append(*target, catalog.SpecGroup{Title: title, Values: make(map[string]string)})
			g = &(*target)[len(*target)-1]
			groups[key] = g
		}
		g.Values[name] = value
	}
	return rows.Err()
}

// Counts returns row counts per entity.
func (s *Store) Counts(ctx context.Context) (catalog.Summary, error) {
	var sum catalog.Summary
	queries := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM makes`, &sum.Makes},
		{`SELECT COUNT(*) FROM models`, &sum.Models},
		{`SELECT COUNT(*) FROM trims`, &sum.Trims},
		{`SELECT COUNT(*) FROM trim_specs WHERE kind = 'option'`, &sum.Options},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dst); err != nil {
			return catalog.Summary{}, err
		}
	}
	return sum, nil
}
