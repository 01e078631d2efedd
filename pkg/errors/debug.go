package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"go.uber.org/multierr"
)

// ErrorDump is an error chain flattened for a structured log entry.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`
	Retryable  bool   `json:"retryable"`

	Chain []string `json:"chain,omitempty"`
	// Causes lists the members of a combined error, e.g. one per failed store order.
	Causes []string `json:"causes,omitempty"`

	PG *PGDetails `json:"pg,omitempty"`
}

type PGDetails struct {
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error(), PG: pgDetails(err)}
	if te := As(err); te != nil {
		d.Code = te.Code()
		d.Retryable = MetadataFor(d.Code).Retryable
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
		if members := multierr.Errors(e); len(members) > 1 {
			for _, m := range members {
				d.Causes = append(d.Causes, m.Error())
			}
			break
		}
	}
	return d
}

func pgDetails(err error) *PGDetails {
	if pgxErr := (*pgconn.PgError)(nil); errors.As(err, &pgxErr) {
		return &PGDetails{Code: pgxErr.Code, Constraint: pgxErr.ConstraintName, Table: pgxErr.TableName, Detail: pgxErr.Detail}
	}
	if pqErr := (*pq.Error)(nil); errors.As(err, &pqErr) {
		return &PGDetails{Code: string(pqErr.Code), Constraint: pqErr.Constraint, Table: pqErr.Table, Detail: pqErr.Detail}
	}
	return nil
}
