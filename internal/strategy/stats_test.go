package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polyquant/snipebot/internal/domain"
)

func TestStatsFirstFillSetsMeanDirectly(t *testing.T) {
	var s Stats

	s.RecordExecution(domain.FillResult{Status: domain.FillStatusFilled}, 12.5)

	assert.Equal(t, uint64(1), s.OrdersPlaced)
	assert.Equal(t, uint64(1), s.OrdersFilled)
	assert.Equal(t, 12.5, s.AvgFillTimeMS)
}

func TestStatsRunningMean(t *testing.T) {
	var s Stats

	latencies := []float64{10, 20, 30, 40}
	for _, l := range latencies {
		s.RecordExecution(domain.FillResult{Status: domain.FillStatusFilled}, l)
	}

	assert.Equal(t, uint64(4), s.OrdersFilled)
	assert.InDelta(t, 25.0, s.AvgFillTimeMS, 1e-9)
}

func TestStatsNonFilledDoesNotTouchMean(t *testing.T) {
	var s Stats

	s.RecordExecution(domain.FillResult{Status: domain.FillStatusFilled}, 10)
	s.RecordExecution(domain.FillResult{Status: domain.FillStatusPartiallyFilled}, 1000)
	s.RecordExecution(domain.FillResult{Status: domain.FillStatusRejected}, 1000)

	assert.Equal(t, uint64(3), s.OrdersPlaced)
	assert.Equal(t, uint64(1), s.OrdersFilled)
	assert.Equal(t, 10.0, s.AvgFillTimeMS, "partials and rejections must not move the fill-time mean")
}

func TestStatsFilledNeverExceedsPlaced(t *testing.T) {
	var s Stats

	statuses := []domain.FillStatus{
		domain.FillStatusFilled,
		domain.FillStatusRejected,
		domain.FillStatusFilled,
		domain.FillStatusPartiallyFilled,
		domain.FillStatusFilled,
	}
	for _, st := range statuses {
		s.RecordExecution(domain.FillResult{Status: st}, 1)
		assert.LessOrEqual(t, s.OrdersFilled, s.OrdersPlaced)
	}
	assert.Equal(t, uint64(5), s.OrdersPlaced)
	assert.Equal(t, uint64(3), s.OrdersFilled)
}

func TestStatsTradeVolume(t *testing.T) {
	var s Stats

	s.RecordTrade(dec("100"))
	s.RecordTrade(dec("250.5"))

	assert.True(t, s.TotalVolume.Equal(dec("350.5")))
	assert.True(t, s.TotalPnL.IsZero(), "pnl accumulation is out of scope")
}
