package idx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/trust/pkg/idx"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestNewIsValidULID(t *testing.T) {
	id := idx.New()
	require.NotEmpty(t, id.String())

	_, err := ulid.ParseStrict(id.String())
	require.NoError(t, err)
}

func TestNewAtEmbedsTime(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	u, err := ulid.ParseStrict(idx.NewAt(tm).String())
	require.NoError(t, err)
	require.Equal(t, ulid.Timestamp(tm), u.Time())
}

func TestOrderingFollowsTime(t *testing.T) {
	a := idx.NewAt(time.Unix(1, 0).UTC())
	b := idx.NewAt(time.Unix(2, 0).UTC())
	require.Less(t, a.String(), b.String())

	// Same millisecond still increases
	now := time.Now().UTC()
	c := idx.NewAt(now)
	d := idx.NewAt(now)
	require.Less(t, c.String(), d.String())
}
