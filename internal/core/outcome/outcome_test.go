package outcome

import (
	"database/sql"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: Validation("bad date %q", "x"), want: KindValidation},
		{name: "wrapped not found", err: fmt.Errorf("divorce: %w", NotFound("no relation")), want: KindNotFound},
		{name: "ambiguous", err: Ambiguous([]int64{1, 2}, "two Eves"), want: KindAmbiguous},
		{name: "conflict", err: Conflict("duplicate"), want: KindConflict},
		{name: "plain error is storage", err: sql.ErrConnDone, want: KindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Storage(sql.ErrTxDone, "commit import")
	if got := err.Error(); got != "storage-failure: commit import: sql: transaction has already been committed or rolled back" {
		t.Errorf("Error() = %q", got)
	}
	if !err.Fatal() {
		t.Error("storage failures must be fatal")
	}
	if Conflict("x").Fatal() {
		t.Error("conflicts must not be fatal to a batch")
	}
}

func TestAmbiguousKeepsCandidates(t *testing.T) {
	oe, ok := As(fmt.Errorf("resolve: %w", Ambiguous([]int64{4, 9}, "Eve")))
	if !ok {
		t.Fatal("expected typed outcome")
	}
	if len(oe.Candidates) != 2 || oe.Candidates[0] != 4 || oe.Candidates[1] != 9 {
		t.Errorf("Candidates = %v, want [4 9]", oe.Candidates)
	}
}
