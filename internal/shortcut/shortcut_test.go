package shortcut

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goxviet/internal/types"
)

func TestLookupAdaptsCase(t *testing.T) {
	table := New()
	require.NoError(t, table.Add("vn", "Việt Nam"))
	require.NoError(t, table.Add("hn", "hà nội"))

	cases := []struct {
		word, want string
	}{
		{"vn", "Việt Nam"},
		{"Vn", "Việt Nam"},
		{"VN", "VIỆT NAM"},
		{"hn", "hà nội"},
		{"Hn", "Hà nội"},
		{"HN", "HÀ NỘI"},
	}
	for _, tc := range cases {
		got, ok := table.Lookup(tc.word, types.SchemeTelex)
		require.True(t, ok, tc.word)
		assert.Equal(t, tc.want, got, tc.word)
	}

	_, ok := table.Lookup("vnx", types.SchemeTelex)
	assert.False(t, ok)
}

func TestAddReplacesWithoutCountingTwice(t *testing.T) {
	table := New()
	require.NoError(t, table.Add("ko", "không"))
	require.NoError(t, table.Add("KO", "khong"))
	assert.Equal(t, 1, table.Len())
	got, _ := table.Lookup("ko", types.SchemeVNI)
	assert.Equal(t, "khong", got)
}

func TestCapacityIsEnforced(t *testing.T) {
	table := New()
	for i := 0; i < Capacity; i++ {
		require.NoError(t, table.Add(fmt.Sprintf("t%d", i), "x"))
	}
	err := table.Add("overflow", "x")
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, Capacity, table.Len())

	// replacing an existing trigger still works when full
	require.NoError(t, table.Add("t7", "y"))
	assert.Equal(t, Capacity, table.Len())
}

func TestExpansionIsTruncated(t *testing.T) {
	table := New()
	long := strings.Repeat("ệ", MaxExpansion+10)
	require.NoError(t, table.Add("long", long))
	got, ok := table.Lookup("long", types.SchemeTelex)
	require.True(t, ok)
	assert.Equal(t, MaxExpansion, utf8.RuneCountInString(got))
}

func TestInvalidTriggers(t *testing.T) {
	table := New()
	for _, trigger := range []string{"", "  ", "a b", strings.Repeat("x", MaxTrigger+1)} {
		err := table.Add(trigger, "x")
		assert.True(t, errors.Is(err, ErrInvalidTrigger), "trigger %q: %v", trigger, err)
	}
	assert.Zero(t, table.Len())
}

func TestCreateRemoveClear(t *testing.T) {
	table := New()
	require.NoError(t, table.Create("dc", "được"))
	assert.ErrorIs(t, table.Create("DC", "x"), ErrExists)

	assert.ErrorIs(t, table.Remove("nope"), ErrNotFound)
	require.NoError(t, table.Remove("Dc"))
	assert.Zero(t, table.Len())

	require.NoError(t, table.Add("a1", "x"))
	table.Clear()
	assert.Zero(t, table.Len())
}

func TestScopedEntries(t *testing.T) {
	table := New()
	require.NoError(t, table.AddScoped("w", "với", ScopeTelex))

	_, ok := table.Lookup("w", types.SchemeTelex)
	assert.True(t, ok)
	_, ok = table.Lookup("w", types.SchemeVNI)
	assert.False(t, ok)
}

func TestExportImportRoundTrip(t *testing.T) {
	table := New()
	require.NoError(t, table.Add("vn", "Việt Nam"))
	require.NoError(t, table.AddScoped("w", "với", ScopeTelex))

	var buf bytes.Buffer
	require.NoError(t, table.Export(&buf))
	assert.Equal(t, "vn\tViệt Nam\nw\tvới\ttelex\n", buf.String())

	copyTable := New()
	n, err := copyTable.Import(strings.NewReader("# comment\n\n" + buf.String()))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, table.Entries(), copyTable.Entries())
}

func TestImportReportsBadLines(t *testing.T) {
	table := New()
	n, err := table.Import(strings.NewReader("ok\tfine\nbroken\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, n)
}
