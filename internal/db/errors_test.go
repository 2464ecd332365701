package db

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestIsNoRows(t *testing.T) {
	assert.False(t, IsNoRows(nil))
	assert.True(t, IsNoRows(ErrNoRows))
	assert.True(t, IsNoRows(fmt.Errorf("deleting: %w", ErrNoRows)))
	assert.True(t, IsNoRows(sql.ErrNoRows))
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.False(t, IsNoRows(errors.New("boom")))
}
