package store

import (
	"context"
	"fmt"
)

// ReadFederation retrieves a federation by name.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadFederation(ctx context.Context, name string) (Federation, error) {
	var f Federation
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, time_implementation, model_fingerprint, seq
		FROM federations
		WHERE name = ?
	`, name).Scan(&f.ID, &f.Name, &f.TimeImplementation, &f.ModelFingerprint, &f.Seq)
	if err != nil {
		return Federation{}, fmt.Errorf("read federation %q: %w", name, err)
	}
	return f, nil
}

// ListFederations returns every federation ordered by seq ASC, name ASC
// COLLATE BINARY. Returns an empty slice (not nil) if there are none.
func (s *Store) ListFederations(ctx context.Context) ([]Federation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, time_implementation, model_fingerprint, seq
		FROM federations
		ORDER BY seq ASC, name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query federations: %w", err)
	}
	defer rows.Close()

	feds := []Federation{}
	for rows.Next() {
		var f Federation
		if err := rows.Scan(&f.ID, &f.Name, &f.TimeImplementation, &f.ModelFingerprint, &f.Seq); err != nil {
			return nil, fmt.Errorf("scan federation: %w", err)
		}
		feds = append(feds, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate federations: %w", err)
	}
	return feds, nil
}

// ReadModel retrieves a datatype model by fingerprint.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadModel(ctx context.Context, fingerprint string) (Model, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `
		SELECT document FROM datatype_models WHERE fingerprint = ?
	`, fingerprint).Scan(&doc)
	if err != nil {
		return Model{}, fmt.Errorf("read model %s: %w", fingerprint, err)
	}
	d, err := unmarshalDeclarations(doc)
	if err != nil {
		return Model{}, fmt.Errorf("read model %s: %w", fingerprint, err)
	}
	return Model{Fingerprint: fingerprint, Declarations: d}, nil
}

// ReadJoin retrieves one federate's join record.
// Returns sql.ErrNoRows if the federate has not joined.
func (s *Store) ReadJoin(ctx context.Context, federationID, federate string) (Join, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT federation_id, federate, initial_time, zero_interval, seq
		FROM joins
		WHERE federation_id = ? AND federate = ?
	`, federationID, federate)
	j, err := scanJoin(row)
	if err != nil {
		return Join{}, fmt.Errorf("read join %q: %w", federate, err)
	}
	return j, nil
}

// ReadJoins returns the joins of a federation ordered by seq ASC, federate
// ASC COLLATE BINARY. Returns an empty slice (not nil) if there are none.
func (s *Store) ReadJoins(ctx context.Context, federationID string) ([]Join, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT federation_id, federate, initial_time, zero_interval, seq
		FROM joins
		WHERE federation_id = ?
		ORDER BY seq ASC, federate COLLATE BINARY ASC
	`, federationID)
	if err != nil {
		return nil, fmt.Errorf("query joins: %w", err)
	}
	defer rows.Close()

	joins := []Join{}
	for rows.Next() {
		j, err := scanJoin(rows)
		if err != nil {
			return nil, err
		}
		joins = append(joins, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate joins: %w", err)
	}
	return joins, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJoin(row scanner) (Join, error) {
	var j Join
	if err := row.Scan(&j.FederationID, &j.Federate, &j.InitialTime, &j.ZeroInterval, &j.Seq); err != nil {
		return Join{}, fmt.Errorf("scan join: %w", err)
	}
	return j, nil
}
