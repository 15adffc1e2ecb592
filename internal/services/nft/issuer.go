// Package nft fronts the external issuance/metadata service that
// materializes tradable assets. The settlement protocols only depend on
// the Issuer interface; the default implementation mints an in-catalog
// asset record with a supply cap of one.
package nft

import (
	"context"
	"encoding/hex"
	"errors"

	"couponvault/internal/models"
	"couponvault/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// MaxNameLength is the issuance service's display-name limit. Longer
// titles are truncated, not rejected.
const MaxNameLength = 32

// Attributes describe the asset to materialize.
type Attributes struct {
	Title       string
	Description string
	MetadataURI string
	Creator     string
}

// ErrMissingTitle is returned when the attributes carry no title at all.
var ErrMissingTitle = errors.New("asset title is required")

// Issuer materializes exactly one unit-capped asset per call and returns
// its handle. Implementations must write the asset record through the
// store they are given so issuance commits inside the caller's unit.
type Issuer interface {
	Issue(ctx context.Context, st repositories.Store, attrs Attributes) (*models.Asset, error)
}

type metadataService struct{}

// NewMetadataService returns the in-process issuance implementation.
func NewMetadataService() Issuer {
	return &metadataService{}
}

func (s *metadataService) Issue(ctx context.Context, st repositories.Store, attrs Attributes) (*models.Asset, error) {
	if attrs.Title == "" {
		return nil, ErrMissingTitle
	}

	name := attrs.Title
	if runes := []rune(name); len(runes) > MaxNameLength {
		name = string(runes[:MaxNameLength])
	}

	asset := &models.Asset{
		ID:          uuid.NewString(),
		Name:        name,
		Description: attrs.Description,
		MetadataURI: attrs.MetadataURI,
		Fingerprint: fingerprint(attrs),
		Creator:     attrs.Creator,
		Supply:      0,
		MaxSupply:   1,
	}

	if err := st.Assets().Create(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func fingerprint(attrs Attributes) string {
	digest := sha3.Sum512([]byte(attrs.Title + "\x00" + attrs.Description + "\x00" + attrs.MetadataURI))
	return hex.EncodeToString(digest[:])
}
