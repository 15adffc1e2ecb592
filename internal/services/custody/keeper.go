// Package custody implements deterministic derivation of program-exclusive
// holding addresses. An escrow address is a pure function of a label and an
// ordered seed tuple; only the keeper (holder of the program signing key)
// can produce a valid transfer proof for a derived address.
package custody

import (
	"crypto/hmac"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/sha3"
)

// Derivation labels. The label discriminates the derivation families so
// their seed spaces can never collide.
const (
	LabelMerchant       = "merchant"
	LabelCoupon         = "coupon"
	LabelIssuanceEscrow = "nft_escrow"
	LabelResaleEscrow   = "resale_escrow"
)

// ErrNoValidBump is returned when the bounded bump search is exhausted.
// It signals a configuration or input error; the caller must abort, never
// retry with different seeds.
var ErrNoValidBump = errors.New("no valid bump found for derivation seeds")

// Derivation is the result of a successful address derivation.
type Derivation struct {
	Address string
	Bump    uint8
}

// Authority is the signing capability the token ledger checks before moving
// assets out of an account. Holder-signed transfers carry no proof (the
// caller's identity was already authenticated upstream); program-signed
// transfers carry a keeper proof over the derived address.
type Authority struct {
	Address string
	Proof   []byte
}

// Keeper derives custody addresses and issues transfer proofs for them.
type Keeper struct {
	programID  string
	signingKey []byte
}

func NewKeeper(programID, signingKey string) *Keeper {
	if programID == "" {
		panic("program id is required")
	}
	if signingKey == "" {
		panic("signing key is required")
	}
	return &Keeper{
		programID:  programID,
		signingKey: []byte(signingKey),
	}
}

// Derive maps (label, seeds) to a unique custody address and bump proof.
// The search walks bump values 255 down to 0 and rejects candidates whose
// digest starts with a zero byte, so it is bounded and can fail.
func (k *Keeper) Derive(label string, seeds ...string) (Derivation, error) {
	for bump := 255; bump >= 0; bump-- {
		digest := k.digest(label, seeds, uint8(bump))
		if digest[0] == 0 {
			continue
		}
		return Derivation{
			Address: hex.EncodeToString(digest),
			Bump:    uint8(bump),
		}, nil
	}
	return Derivation{}, ErrNoValidBump
}

func (k *Keeper) digest(label string, seeds []string, bump uint8) []byte {
	h := sha3.New256()
	h.Write([]byte(k.programID))
	h.Write([]byte{0})
	h.Write([]byte(label))
	for _, seed := range seeds {
		h.Write([]byte{0})
		h.Write([]byte(seed))
	}
	h.Write([]byte{bump})
	return h.Sum(nil)
}

// Prove produces the program signature for a derived address.
func (k *Keeper) Prove(address string) []byte {
	mac := hmac.New(sha3.New256, k.signingKey)
	mac.Write([]byte(address))
	return mac.Sum(nil)
}

// Verify reports whether proof is a valid program signature for address.
func (k *Keeper) Verify(address string, proof []byte) bool {
	return hmac.Equal(proof, k.Prove(address))
}

// Authority bundles a derived address with its transfer proof.
func (k *Keeper) Authority(address string) Authority {
	return Authority{Address: address, Proof: k.Prove(address)}
}
