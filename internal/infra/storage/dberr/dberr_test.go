package dberr

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "bad connection", err: driver.ErrBadConn, want: true},
		{name: "connection done", err: sql.ErrConnDone, want: true},
		{name: "wrapped bad connection", err: fmt.Errorf("query: %w", driver.ErrBadConn), want: true},
		{name: "network error", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, want: true},
		{name: "pg connection failure", err: &pq.Error{Code: "08006"}, want: true},
		{name: "pg too many connections", err: &pq.Error{Code: "53300"}, want: true},
		{name: "pg admin shutdown", err: &pq.Error{Code: "57P01"}, want: true},
		{name: "pg query canceled is not transient", err: &pq.Error{Code: "57014"}, want: false},
		{name: "pg unique violation is not transient", err: &pq.Error{Code: "23505"}, want: false},
		{name: "pg serialization failure is not transient", err: &pq.Error{Code: "40001"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnavailable(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	sentinel := errors.New("repo: failed to execute query")

	err := Wrap(sentinel, "GetByID - execute query", &pq.Error{Code: "08006"})
	require.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, sentinel)

	err = Wrap(sentinel, "GetByID - execute query", errors.New("syntax error"))
	require.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, ErrUnavailable)
}
