package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNow is the fixed "current time" for all policy tests.
var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func testPolicy() *Policy {
	return NewPolicy(FixedClock{At: testNow})
}

func TestValidatePartySizeBounds(t *testing.T) {
	p := testPolicy()
	// 48 hours out, well before closing
	date, tod := "2025-03-12", "18:00"

	for _, guests := range []int{-1, 0, 21, 100} {
		_, err := p.Validate(date, tod, guests)
		var violation *RuleViolation
		require.True(t, errors.As(err, &violation), "guests=%d should be rejected", guests)
		assert.Contains(t, violation.Reason, "between 1 and 20")
	}
	for _, guests := range []int{1, 2, 10, 20} {
		_, err := p.Validate(date, tod, guests)
		assert.NoError(t, err, "guests=%d should be accepted", guests)
	}
}

func TestValidateRejectsMalformedSlot(t *testing.T) {
	p := testPolicy()
	cases := [][2]string{
		{"2025-02-30", "18:00"}, // no such day
		{"not-a-date", "18:00"},
		{"2025-03-12", "25:00"},
		{"2025-03-12", "6pm"},
		{"", ""},
	}
	for _, c := range cases {
		_, err := p.Validate(c[0], c[1], 2)
		var violation *RuleViolation
		require.True(t, errors.As(err, &violation), "%s %s should be rejected", c[0], c[1])
		assert.Equal(t, "invalid date or time", violation.Reason)
	}
}

func TestValidateClosingCutoff(t *testing.T) {
	p := testPolicy()
	date := "2025-03-12"

	for _, tod := range []string{"21:00", "21:30", "22:00", "23:59"} {
		_, err := p.Validate(date, tod, 2)
		var violation *RuleViolation
		require.True(t, errors.As(err, &violation), "time %s should be rejected", tod)
		assert.Contains(t, violation.Reason, "before 21:00")
	}
	for _, tod := range []string{"12:00", "18:00", "20:59"} {
		_, err := p.Validate(date, tod, 2)
		assert.NoError(t, err, "time %s should be accepted", tod)
	}
}

func TestValidateLeadTime(t *testing.T) {
	p := testPolicy()

	// 23 hours out: too soon regardless of hour of day
	_, err := p.Validate("2025-03-11", "11:00", 2)
	var violation *RuleViolation
	require.True(t, errors.As(err, &violation))
	assert.Contains(t, violation.Reason, "24 hours notice")

	// exactly 24 hours out is admissible
	at, err := p.Validate("2025-03-11", "12:00", 2)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC), at)

	// same-day booking is always too soon
	_, err = p.Validate("2025-03-10", "20:00", 2)
	assert.Error(t, err)
}

func TestValidateRuleOrder(t *testing.T) {
	p := testPolicy()
	// Party size is checked before the slot is even parsed.
	_, err := p.Validate("garbage", "garbage", 0)
	var violation *RuleViolation
	require.True(t, errors.As(err, &violation))
	assert.Contains(t, violation.Reason, "between 1 and 20")
}

func TestExpiryFor(t *testing.T) {
	p := testPolicy()
	created := testNow
	assert.Equal(t, created.Add(30*time.Minute), p.ExpiryFor(created))
}
