package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BruksfildServices01/barberconnect/internal/httperr"
)

const pgUniqueViolation = "23505"

// uuidParam reads a path parameter as a UUID, answering 400 when it is not one.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return uuid.Nil, false
	}
	return id, true
}

// uniqueViolation reports the constraint name of a Postgres unique violation.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return strings.ToLower(pgErr.ConstraintName), true
	}
	return "", false
}
