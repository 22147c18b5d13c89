package domain

import "errors"

var (
	ErrBookNotFound     = errors.New("orderbook not found")
	ErrInvalidDelta     = errors.New("invalid orderbook delta")
	ErrInvalidOrder     = errors.New("invalid order parameters")
	ErrOrderTooSmall    = errors.New("order below minimum size")
	ErrEmptyBook        = errors.New("no liquidity on book side")
	ErrSlippageExceeded = errors.New("slippage tolerance exceeded")
	ErrWSDisconnect     = errors.New("websocket disconnected")
)
