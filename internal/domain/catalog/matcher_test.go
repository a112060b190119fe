package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustType(t *testing.T, id uint, name string, family Family, weight int) *Type {
	t.Helper()
	ct, err := ReconstructType(id, name, family, weight, time.Now())
	require.NoError(t, err)
	return ct
}

func TestMatcher_Match(t *testing.T) {
	types := []*Type{
		mustType(t, 1, "약침", FamilyPackage, 1),
		mustType(t, 2, "공진단", FamilyAddon, 2),
		mustType(t, 3, "멤버십", FamilyMembership, 1),
	}
	m := NewMatcher(types)

	t.Run("substring match inside a longer item name", func(t *testing.T) {
		got := m.Match("산삼 약침 10회")
		require.NotNil(t, got)
		assert.Equal(t, uint(1), got.ID())
	})

	t.Run("case insensitive", func(t *testing.T) {
		types := []*Type{mustType(t, 4, "VIP Membership", FamilyMembership, 1)}
		got := NewMatcher(types).Match("vip membership 12m")
		require.NotNil(t, got)
		assert.Equal(t, uint(4), got.ID())
	})

	t.Run("no match returns nil", func(t *testing.T) {
		assert.Nil(t, m.Match("도수치료"))
	})
}

func TestMatcher_LongestNameWins(t *testing.T) {
	types := []*Type{
		mustType(t, 1, "약침", FamilyPackage, 1),
		mustType(t, 2, "약침 패키지", FamilyPackage, 3),
	}
	m := NewMatcher(types)

	got := m.Match("산삼 약침 패키지 10회")
	require.NotNil(t, got)
	assert.Equal(t, uint(2), got.ID())
}

func TestMatcher_MatchInFamily(t *testing.T) {
	types := []*Type{
		mustType(t, 1, "녹용", FamilyAddon, 1),
		mustType(t, 2, "녹용 한약", FamilyHerbal, 1),
	}
	m := NewMatcher(types)

	got := m.MatchInFamily("녹용 한약 1개월", FamilyAddon)
	require.NotNil(t, got)
	assert.Equal(t, uint(1), got.ID())
}

func TestMatcher_MatchAll(t *testing.T) {
	types := []*Type{
		mustType(t, 1, "공진단", FamilyAddon, 2),
		mustType(t, 2, "경옥고", FamilyAddon, 1),
		mustType(t, 3, "약침", FamilyPackage, 1),
	}
	m := NewMatcher(types)

	t.Run("composite line reports every bundled item", func(t *testing.T) {
		got := m.MatchAll("공진단+경옥고 세트")
		require.Len(t, got, 2)
		ids := []uint{got[0].ID(), got[1].ID()}
		assert.ElementsMatch(t, []uint{1, 2}, ids)
	})

	t.Run("single item yields one match", func(t *testing.T) {
		got := m.MatchAll("경옥고 1개월")
		require.Len(t, got, 1)
		assert.Equal(t, uint(2), got[0].ID())
	})

	t.Run("no match yields empty", func(t *testing.T) {
		assert.Empty(t, m.MatchAll("도수치료"))
	})
}

func TestMatcher_MatchAllInFamily(t *testing.T) {
	types := []*Type{
		mustType(t, 1, "공진단", FamilyAddon, 2),
		mustType(t, 2, "경옥고", FamilyAddon, 1),
		mustType(t, 3, "경옥고 한약", FamilyHerbal, 1),
	}
	m := NewMatcher(types)

	got := m.MatchAllInFamily("공진단+경옥고 세트", FamilyAddon)
	require.Len(t, got, 2)
	for _, ct := range got {
		assert.Equal(t, FamilyAddon, ct.Family())
	}
}

func TestMatcher_SuggestWeight(t *testing.T) {
	m := NewMatcher([]*Type{mustType(t, 1, "공진단", FamilyAddon, 2)})

	assert.Equal(t, 2, m.SuggestWeight("공진단 10환"))
	assert.Equal(t, 1, m.SuggestWeight("이름 없는 항목"))
}

func TestReconstructType_DefaultsWeight(t *testing.T) {
	ct, err := ReconstructType(1, "약침", FamilyPackage, 0, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, ct.DeductionWeight())
}

func TestReconstructType_Invalid(t *testing.T) {
	_, err := ReconstructType(0, "약침", FamilyPackage, 1, time.Now())
	assert.Error(t, err)

	_, err = ReconstructType(1, "", FamilyPackage, 1, time.Now())
	assert.Error(t, err)

	_, err = ReconstructType(1, "약침", Family("bogus"), 1, time.Now())
	assert.Error(t, err)
}
