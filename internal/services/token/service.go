// Package token is the ledger primitive for moving asset units between
// holding accounts. It is the narrow collaborator the settlement protocols
// call inside their transaction units: mint, transfer, burn, nothing else.
//
// Authorization: outbound transfers require a custody.Authority whose
// address matches the source account's authority. Escrow-held accounts are
// only movable with a keeper proof; holder accounts are moved on behalf of
// the authenticated caller, so no proof accompanies them.
package token

import (
	"fmt"

	"couponvault/internal/models"
	"couponvault/internal/repositories"
	"couponvault/internal/services/custody"
)

// Service is the ledger interface consumed by the settlement protocols.
// Every method operates against the store the caller passes in, so the
// ledger mutations land in the caller's atomic unit.
type Service interface {
	CreateAccount(st repositories.Store, assetID, address, authority, kind string, bump uint8) (*models.TokenAccount, error)
	EnsureHolderAccount(st repositories.Store, assetID, address string) (*models.TokenAccount, error)
	Mint(st repositories.Store, assetID, to string, amount uint64) error
	Transfer(st repositories.Store, assetID, from, to string, amount uint64, auth custody.Authority) error
	Burn(st repositories.Store, assetID, from string, amount uint64, auth custody.Authority) error
	Balance(st repositories.Store, assetID, address string) (uint64, error)
}

type ledger struct {
	keeper *custody.Keeper
}

// NewLedger creates the ledger service. The keeper verifies program proofs
// on escrow-authorized transfers.
func NewLedger(keeper *custody.Keeper) Service {
	if keeper == nil {
		panic("keeper is required")
	}
	return &ledger{keeper: keeper}
}

func (l *ledger) CreateAccount(st repositories.Store, assetID, address, authority, kind string, bump uint8) (*models.TokenAccount, error) {
	if _, err := st.TokenAccounts().Get(assetID, address); err == nil {
		return nil, ErrAccountExists
	} else if err != repositories.ErrTokenAccountNotFound {
		return nil, err
	}

	account := &models.TokenAccount{
		AssetID:   assetID,
		Address:   address,
		Authority: authority,
		Kind:      kind,
		Bump:      bump,
		Amount:    0,
	}
	if err := st.TokenAccounts().Create(account); err != nil {
		return nil, err
	}
	return account, nil
}

func (l *ledger) EnsureHolderAccount(st repositories.Store, assetID, address string) (*models.TokenAccount, error) {
	account, err := st.TokenAccounts().Get(assetID, address)
	if err == nil {
		return account, nil
	}
	if err != repositories.ErrTokenAccountNotFound {
		return nil, err
	}
	return l.CreateAccount(st, assetID, address, address, models.AccountKindHolder, 0)
}

func (l *ledger) Mint(st repositories.Store, assetID, to string, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	asset, err := st.Assets().GetByID(assetID)
	if err != nil {
		return err
	}
	if asset.Supply+amount > asset.MaxSupply || asset.Supply+amount < asset.Supply {
		return ErrSupplyCapExceeded
	}

	account, err := st.TokenAccounts().GetForUpdate(assetID, to)
	if err != nil {
		return err
	}
	account.Amount += amount
	if err := st.TokenAccounts().Update(account); err != nil {
		return err
	}

	asset.Supply += amount
	return st.Assets().Update(asset)
}

func (l *ledger) Transfer(st repositories.Store, assetID, from, to string, amount uint64, auth custody.Authority) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	source, err := st.TokenAccounts().GetForUpdate(assetID, from)
	if err != nil {
		return err
	}
	if err := l.authorize(source, auth); err != nil {
		return err
	}
	if source.Amount < amount {
		return ErrInsufficientUnits
	}

	dest, err := l.EnsureHolderAccount(st, assetID, to)
	if err != nil {
		return err
	}

	source.Amount -= amount
	dest.Amount += amount

	if err := st.TokenAccounts().Update(source); err != nil {
		return err
	}
	return st.TokenAccounts().Update(dest)
}

func (l *ledger) Burn(st repositories.Store, assetID, from string, amount uint64, auth custody.Authority) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	account, err := st.TokenAccounts().GetForUpdate(assetID, from)
	if err != nil {
		return err
	}
	if err := l.authorize(account, auth); err != nil {
		return err
	}
	if account.Amount < amount {
		return ErrInsufficientUnits
	}

	asset, err := st.Assets().GetByID(assetID)
	if err != nil {
		return err
	}

	account.Amount -= amount
	if err := st.TokenAccounts().Update(account); err != nil {
		return err
	}

	asset.Supply -= amount
	return st.Assets().Update(asset)
}

func (l *ledger) Balance(st repositories.Store, assetID, address string) (uint64, error) {
	account, err := st.TokenAccounts().Get(assetID, address)
	if err != nil {
		if err == repositories.ErrTokenAccountNotFound {
			return 0, nil
		}
		return 0, err
	}
	return account.Amount, nil
}

// authorize gates every outbound move. Escrow accounts demand a valid
// program proof; holder accounts only need the authenticated address.
func (l *ledger) authorize(account *models.TokenAccount, auth custody.Authority) error {
	if auth.Address != account.Authority {
		return ErrUnauthorized
	}
	if account.Kind != models.AccountKindHolder {
		if auth.Proof == nil || !l.keeper.Verify(auth.Address, auth.Proof) {
			return fmt.Errorf("%w: invalid program proof", ErrUnauthorized)
		}
	}
	return nil
}
