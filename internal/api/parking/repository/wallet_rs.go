package parkingRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/wanghoc/eParking/internal/api/parking"
	"github.com/wanghoc/eParking/internal/entity"
	contextPkg "github.com/wanghoc/eParking/pkg/context"
)

type WalletDB struct {
	ID        sql.NullString `db:"id"`
	UserID    sql.NullString `db:"user_id"`
	Balance   sql.NullInt64  `db:"balance"`
	UpdatedAt sql.NullTime   `db:"updated_at"`
}

func (r *walletRepository) GetByUser(c context.Context, userID string) (entity.Wallet, error) {
	requestID := contextPkg.GetRequestID(c)
	var wallet WalletDB

	argsKV := map[string]interface{}{
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryGetWalletByUser, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByUser named query preparation err")
		return entity.Wallet{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&wallet); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Wallet{}, parking.ErrWalletNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByUser execution err")
		return entity.Wallet{}, err
	}

	return entity.Wallet{
		ID:        wallet.ID.String,
		UserID:    wallet.UserID.String,
		Balance:   wallet.Balance.Int64,
		UpdatedAt: wallet.UpdatedAt.Time,
	}, nil
}

// Debit subtracts the amount only when the balance covers it; the guarded
// UPDATE returns zero rows otherwise.
func (r *walletRepository) Debit(c context.Context, userID string, amount int64) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"user_id":    userID,
		"amount":     amount,
		"updated_at": time.Now(),
	}

	query, args, err := sqlx.Named(queryDebitWallet, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Debit named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Debit execution err")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"amount":     amount,
		}).Warn("Wallet debit rejected, balance too low")
		return parking.ErrInsufficientBalance
	}

	return nil
}
