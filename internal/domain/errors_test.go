package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDataIntegrityError(t *testing.T) {
	rows := []string{}
	for i := 0; i < 12; i++ {
		rows = append(rows, fmt.Sprintf("row %d", i))
	}
	err := fmt.Errorf("failed to prepare returns: %w", DataIntegrityError{Reason: "duplicate (date, symbol)", Rows: rows})

	var integrityErr DataIntegrityError
	require.True(t, errors.As(err, &integrityErr))
	require.Len(t, integrityErr.Rows, 12)
	require.Contains(t, err.Error(), "(12 rows)")
	require.True(t, strings.HasSuffix(err.Error(), "; ..."))
}

func TestAlignmentViolation(t *testing.T) {
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	err := AlignmentViolation{Symbol: "BTC", DecisionDate: d, RealizedDate: d}
	require.Equal(t, "alignment violation for BTC: weight decided 2024-03-01 applied to return realized 2024-03-01", err.Error())
}
