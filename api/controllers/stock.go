package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/labstock-backend/api/middleware"
	"github.com/angelmondragon/labstock-backend/api/responses"
	"github.com/angelmondragon/labstock-backend/api/validators"
	"github.com/angelmondragon/labstock-backend/internal/stock"
	"github.com/angelmondragon/labstock-backend/internal/users"
	pkgerrors "github.com/angelmondragon/labstock-backend/pkg/errors"
	"github.com/angelmondragon/labstock-backend/pkg/logger"
	"github.com/angelmondragon/labstock-backend/pkg/pagination"
	"github.com/angelmondragon/labstock-backend/pkg/types"
)

// movementBody is the checkout/checkin payload. An empty username means the
// caller. Quantity accepts a number or a numeric string.
type movementBody struct {
	Username     string     `json:"username"`
	MaterialCode string     `json:"material_code" validate:"required"`
	Quantity     types.Cell `json:"quantity"`
}

func actorFromRequest(r *http.Request) users.Actor {
	return users.Actor{
		Username: middleware.UsernameFromContext(r.Context()),
		Role:     middleware.RoleFromContext(r.Context()),
	}
}

// resolveUsername fills an empty username with the caller and enforces
// that members only act for themselves.
func resolveUsername(actor users.Actor, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		username = actor.Username
	}
	if !actor.CanAccess(username) {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "cannot act for another user")
	}
	return username, nil
}

func StockCheckout(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return stockMovement(svc.Checkout, "Checkout successful", logg)
}

func StockCheckin(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return stockMovement(svc.Checkin, "Checkin successful", logg)
}

type movementFunc func(ctx context.Context, input stock.MovementInput) (*stock.TransactionDTO, error)

func stockMovement(move movementFunc, message string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body movementBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		qty, err := body.Quantity.Int()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "quantity must be a number"))
			return
		}

		username, err := resolveUsername(actorFromRequest(r), body.Username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, err = move(r.Context(), stock.MovementInput{
			Username:     username,
			MaterialCode: body.MaterialCode,
			Quantity:     qty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, message)
	}
}

// StockOutstanding reports borrowed, returned and outstanding units.
func StockOutstanding(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		username, err := resolveUsername(actorFromRequest(r), q.Get("username"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.GetOutstanding(r.Context(), username, q.Get("material_code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

func AdminListTransactions(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListTransactions(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
