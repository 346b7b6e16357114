package horizon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"ledgerorigin/internal/history"
	"ledgerorigin/internal/origin"

	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/support/render/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testAccount(t *testing.T) string {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i * 3)
	}
	addr, err := strkey.Encode(strkey.VersionByteAccountID, raw)
	require.NoError(t, err)
	return addr
}

func txPage(txs ...hProtocol.Transaction) hProtocol.TransactionsPage {
	var page hProtocol.TransactionsPage
	page.Embedded.Records = txs
	return page
}

func tx(n int, closeTime time.Time) hProtocol.Transaction {
	return hProtocol.Transaction{
		Hash:            fmt.Sprintf("hash-%d", n),
		PT:              fmt.Sprintf("%d", 1000+n),
		Ledger:          int32(500 + n),
		LedgerCloseTime: closeTime,
	}
}

func request(account, cursor string) horizonclient.TransactionRequest {
	return horizonclient.TransactionRequest{
		ForAccount:    account,
		Order:         horizonclient.OrderDesc,
		Cursor:        cursor,
		Limit:         PageLimit,
		IncludeFailed: true,
	}
}

func TestSource_FetchPage_MapsRecords(t *testing.T) {
	account := testAccount(t)
	closeTime := time.Date(2023, 12, 24, 11, 27, 24, 0, time.UTC)

	hmock := &horizonclient.MockClient{}
	hmock.On("Transactions", request(account, "")).Return(txPage(tx(2, closeTime), tx(1, time.Time{})), nil)

	src := NewSourceWithClient(hmock, Options{})
	page, err := src.FetchPage(context.Background(), history.AccountID(account), "")
	require.NoError(t, err)
	hmock.AssertExpectations(t)

	require.Len(t, page, 2)
	assert.Equal(t, "hash-2", page[0].Signature)
	assert.Equal(t, uint64(502), page[0].Slot)
	assert.Equal(t, "1002", page[0].PagingToken)
	require.NotNil(t, page[0].BlockTime)
	assert.Equal(t, closeTime.Unix(), *page[0].BlockTime)
	assert.Nil(t, page[1].BlockTime)
}

func TestSource_FetchPage_NotFoundIsEmpty(t *testing.T) {
	account := testAccount(t)
	notFound := &horizonclient.Error{Problem: problem.P{
		Type:   "https://stellar.org/horizon-errors/not_found",
		Title:  "Resource Missing",
		Status: 404,
	}}

	hmock := &horizonclient.MockClient{}
	hmock.On("Transactions", request(account, "")).Return(hProtocol.TransactionsPage{}, notFound)

	src := NewSourceWithClient(hmock, Options{})
	page, err := src.FetchPage(context.Background(), history.AccountID(account), "")
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestSource_FetchPage_Error(t *testing.T) {
	account := testAccount(t)

	hmock := &horizonclient.MockClient{}
	hmock.On("Transactions", mock.Anything).Return(hProtocol.TransactionsPage{}, errors.New("boom"))

	src := NewSourceWithClient(hmock, Options{})
	_, err := src.FetchPage(context.Background(), history.AccountID(account), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestSource_ParseAccount(t *testing.T) {
	src := NewSourceWithClient(&horizonclient.MockClient{}, Options{})

	account := testAccount(t)
	got, err := src.ParseAccount(account)
	require.NoError(t, err)
	assert.Equal(t, history.AccountID(account), got)

	_, err = src.ParseAccount("GBAD")
	assert.ErrorIs(t, err, history.ErrInvalidAccount)
}

func TestSource_CursorFor(t *testing.T) {
	src := NewSourceWithClient(&horizonclient.MockClient{}, Options{})

	cursor, err := src.CursorFor(history.Record{Signature: "h", PagingToken: "42"})
	require.NoError(t, err)
	assert.Equal(t, history.Cursor("42"), cursor)

	_, err = src.CursorFor(history.Record{Signature: "h"})
	assert.Error(t, err)
}

func TestSource_ResolveEarliest(t *testing.T) {
	account := testAccount(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	full := make([]hProtocol.Transaction, PageLimit)
	for i := range full {
		full[i] = tx(PageLimit+1-i, base.Add(time.Duration(PageLimit+1-i)*time.Minute))
	}
	last := tx(1, base.Add(time.Minute))

	hmock := &horizonclient.MockClient{}
	hmock.On("Transactions", request(account, "")).Return(txPage(full...), nil).Once()
	hmock.On("Transactions", request(account, full[PageLimit-1].PT)).Return(txPage(last), nil).Once()

	got, err := origin.NewResolver(NewSourceWithClient(hmock, Options{})).ResolveEarliest(context.Background(), history.AccountID(account))
	require.NoError(t, err)
	hmock.AssertExpectations(t)

	assert.Equal(t, "hash-1", got.Signature)
	assert.Equal(t, base.Add(time.Minute), got.Time)
	assert.Equal(t, 2, got.PagesFetched)
}

func TestNewSource_DefaultTimeout(t *testing.T) {
	for _, tt := range []struct {
		timeout time.Duration
		want    time.Duration
	}{
		{0, DefaultTimeout},
		{-time.Second, DefaultTimeout},
		{5 * time.Second, 5 * time.Second},
	} {
		src, err := NewSource(Options{HorizonURL: "http://localhost:8000", Timeout: tt.timeout})
		require.NoError(t, err)

		client, ok := src.client.(*horizonclient.Client)
		require.True(t, ok)
		httpClient, ok := client.HTTP.(*http.Client)
		require.True(t, ok)
		assert.Equal(t, tt.want, httpClient.Timeout)
	}
}
