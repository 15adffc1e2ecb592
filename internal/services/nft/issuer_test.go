package nft

import (
	"context"
	"strings"
	"testing"

	"couponvault/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueCreatesUnitCappedAsset(t *testing.T) {
	issuer := NewMetadataService()
	st := testutil.NewStore(t)

	asset, err := issuer.Issue(context.Background(), st, Attributes{
		Title:       "Half Price Coffee",
		Description: "50% off any drink",
		MetadataURI: "https://example.com/meta/1",
		Creator:     "merchant-a",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, asset.ID)
	assert.Equal(t, "Half Price Coffee", asset.Name)
	assert.Equal(t, uint64(0), asset.Supply)
	assert.Equal(t, uint64(1), asset.MaxSupply)
	assert.NotEmpty(t, asset.Fingerprint)

	stored, err := st.Assets().GetByID(asset.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.Fingerprint, stored.Fingerprint)
}

func TestIssueTruncatesLongTitles(t *testing.T) {
	issuer := NewMetadataService()
	st := testutil.NewStore(t)

	long := strings.Repeat("a", 40)
	asset, err := issuer.Issue(context.Background(), st, Attributes{Title: long})
	require.NoError(t, err)
	assert.Equal(t, long[:MaxNameLength], asset.Name)

	// Truncation counts characters, not bytes.
	wide := strings.Repeat("日", 40)
	asset, err = issuer.Issue(context.Background(), st, Attributes{Title: wide})
	require.NoError(t, err)
	assert.Equal(t, MaxNameLength, len([]rune(asset.Name)))
}

func TestIssueRequiresTitle(t *testing.T) {
	issuer := NewMetadataService()
	st := testutil.NewStore(t)

	_, err := issuer.Issue(context.Background(), st, Attributes{})
	assert.ErrorIs(t, err, ErrMissingTitle)
}

func TestFingerprintDistinguishesAttributes(t *testing.T) {
	a := fingerprint(Attributes{Title: "A", Description: "B"})
	b := fingerprint(Attributes{Title: "AB", Description: ""})
	assert.NotEqual(t, a, b, "field boundaries must affect the fingerprint")
}
