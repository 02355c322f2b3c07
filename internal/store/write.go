package store

import (
	"context"
	"fmt"
)

// WriteModel stores a datatype model under its fingerprint. Uses
// ON CONFLICT(fingerprint) DO NOTHING: a fingerprint always names the same
// content, so rewriting it is a no-op.
func (s *Store) WriteModel(ctx context.Context, m Model) error {
	doc, err := marshalDeclarations(m.Declarations)
	if err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO datatype_models (fingerprint, module, document)
		VALUES (?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`, m.Fingerprint, m.Declarations.Module, doc)
	if err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// WriteFederation inserts a federation record. Returns inserted=false when a
// federation with the same name already exists; the existing record is left
// unchanged.
//
// Note: The model referenced by ModelFingerprint must exist (foreign key constraint).
func (s *Store) WriteFederation(ctx context.Context, f Federation) (inserted bool, err error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO federations (id, name, time_implementation, model_fingerprint, seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, f.ID, f.Name, f.TimeImplementation, f.ModelFingerprint, f.Seq)
	if err != nil {
		return false, fmt.Errorf("write federation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write federation: rows affected: %w", err)
	}
	return rows > 0, nil
}

// WriteJoin records a federate joining a federation. Returns inserted=false
// when the federate already joined; the original sentinels are kept.
//
// Note: The federation referenced by FederationID must exist (foreign key constraint).
func (s *Store) WriteJoin(ctx context.Context, j Join) (inserted bool, err error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO joins (federation_id, federate, initial_time, zero_interval, seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(federation_id, federate) DO NOTHING
	`, j.FederationID, j.Federate, j.InitialTime, j.ZeroInterval, j.Seq)
	if err != nil {
		return false, fmt.Errorf("write join: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write join: rows affected: %w", err)
	}
	return rows > 0, nil
}
