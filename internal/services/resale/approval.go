package resale

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ApprovalTTL bounds how long a seller's co-signature stays usable.
const ApprovalTTL = 5 * time.Minute

// TransferApproval is the seller's co-signature over the exact terms of a
// direct transfer. A P2P settlement is only valid while both parties have
// signed the same (asset, buyer, price) tuple.
type TransferApproval struct {
	jwt.RegisteredClaims
	Seller  string `json:"seller"`
	Buyer   string `json:"buyer"`
	AssetID string `json:"asset_id"`
	Price   uint64 `json:"price"`
}

func (s *service) signApproval(approval *TransferApproval) (string, error) {
	now := time.Now()
	approval.IssuedAt = jwt.NewNumericDate(now)
	approval.ExpiresAt = jwt.NewNumericDate(now.Add(ApprovalTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, approval)
	return token.SignedString(s.approvalSecret)
}

func (s *service) parseApproval(signed string) (*TransferApproval, error) {
	approval := &TransferApproval{}
	token, err := jwt.ParseWithClaims(signed, approval, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidApproval
		}
		return s.approvalSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidApproval
	}
	return approval, nil
}
