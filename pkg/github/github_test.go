package github_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	ct "k8s.io/utils/clock/testing"

	gh "github.com/aquasecurity/ghsa2md/pkg/github"
)

type MockSecurityAdvisories struct {
	mock.Mock
}

func (_m *MockSecurityAdvisories) ListGlobalSecurityAdvisories(ctx context.Context, opts *github.ListGlobalSecurityAdvisoriesOptions) (
	[]*github.GlobalSecurityAdvisory, *github.Response, error) {
	ret := _m.Called(ctx, opts)
	ret0 := ret.Get(0)
	if ret0 == nil {
		return nil, nil, ret.Error(2)
	}
	advisories, ok := ret0.([]*github.GlobalSecurityAdvisory)
	if !ok {
		return nil, nil, ret.Error(2)
	}

	ret1 := ret.Get(1)
	response, _ := ret1.(*github.Response)
	return advisories, response, ret.Error(2)
}

func newAdvisory(ghsaID string) *github.GlobalSecurityAdvisory {
	return &github.GlobalSecurityAdvisory{
		SecurityAdvisory: github.SecurityAdvisory{
			GHSAID: github.String(ghsaID),
		},
	}
}

func afterCursor(after string) interface{} {
	return mock.MatchedBy(func(opts *github.ListGlobalSecurityAdvisoriesOptions) bool {
		return opts.ListCursorOptions.After == after
	})
}

func TestClient_WalkAdvisories(t *testing.T) {
	fakeClock := ct.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	t.Run("happy path with a single page", func(t *testing.T) {
		mockAdvisories := new(MockSecurityAdvisories)
		mockAdvisories.On("ListGlobalSecurityAdvisories", mock.Anything, afterCursor("")).Return(
			[]*github.GlobalSecurityAdvisory{
				newAdvisory("GHSA-aaaa-aaaa-aaaa"),
				newAdvisory("GHSA-bbbb-bbbb-bbbb"),
			},
			&github.Response{},
			nil,
		)

		client := gh.Client{
			Clock:      fakeClock,
			Advisories: mockAdvisories,
		}

		var walked []string
		count, err := client.WalkAdvisories(context.Background(), gh.Filter{}, func(adv *github.GlobalSecurityAdvisory) error {
			walked = append(walked, adv.GetGHSAID())
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, []string{"GHSA-aaaa-aaaa-aaaa", "GHSA-bbbb-bbbb-bbbb"}, walked)
		mockAdvisories.AssertExpectations(t)
	})

	t.Run("happy path with cursor pagination", func(t *testing.T) {
		mockAdvisories := new(MockSecurityAdvisories)
		mockAdvisories.On("ListGlobalSecurityAdvisories", mock.Anything, afterCursor("")).Return(
			[]*github.GlobalSecurityAdvisory{
				newAdvisory("GHSA-aaaa-aaaa-aaaa"),
			},
			&github.Response{After: "cursor1"},
			nil,
		).Once()
		mockAdvisories.On("ListGlobalSecurityAdvisories", mock.Anything, afterCursor("cursor1")).Return(
			[]*github.GlobalSecurityAdvisory{
				newAdvisory("GHSA-bbbb-bbbb-bbbb"),
				newAdvisory("GHSA-cccc-cccc-cccc"),
			},
			&github.Response{},
			nil,
		).Once()

		client := gh.Client{
			Clock:      fakeClock,
			Advisories: mockAdvisories,
		}

		var walked []string
		count, err := client.WalkAdvisories(context.Background(), gh.Filter{}, func(adv *github.GlobalSecurityAdvisory) error {
			walked = append(walked, adv.GetGHSAID())
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.Equal(t, []string{
			"GHSA-aaaa-aaaa-aaaa",
			"GHSA-bbbb-bbbb-bbbb",
			"GHSA-cccc-cccc-cccc",
		}, walked)
		mockAdvisories.AssertExpectations(t)
	})

	t.Run("filter reaches the list options", func(t *testing.T) {
		mockAdvisories := new(MockSecurityAdvisories)
		mockAdvisories.On("ListGlobalSecurityAdvisories", mock.Anything, mock.MatchedBy(
			func(opts *github.ListGlobalSecurityAdvisoriesOptions) bool {
				return opts.Ecosystem != nil && *opts.Ecosystem == "npm" &&
					opts.Severity != nil && *opts.Severity == "high"
			},
		)).Return([]*github.GlobalSecurityAdvisory{}, &github.Response{}, nil)

		client := gh.Client{
			Clock:      fakeClock,
			Advisories: mockAdvisories,
		}

		count, err := client.WalkAdvisories(context.Background(), gh.Filter{
			Ecosystem: "npm",
			Severity:  "high",
		}, func(adv *github.GlobalSecurityAdvisory) error {
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 0, count)
		mockAdvisories.AssertExpectations(t)
	})

	t.Run("sad path: listing fails", func(t *testing.T) {
		mockAdvisories := new(MockSecurityAdvisories)
		mockAdvisories.On("ListGlobalSecurityAdvisories", mock.Anything, mock.Anything).Return(
			nil, nil, errors.New("401 Bad credentials"),
		)

		client := gh.Client{
			Clock:      fakeClock,
			Advisories: mockAdvisories,
		}

		count, err := client.WalkAdvisories(context.Background(), gh.Filter{}, func(adv *github.GlobalSecurityAdvisory) error {
			return nil
		})

		assert.EqualError(t, err, "failed to list global security advisories: 401 Bad credentials")
		assert.Equal(t, 0, count)
	})

	t.Run("sad path: callback error aborts the walk", func(t *testing.T) {
		mockAdvisories := new(MockSecurityAdvisories)
		mockAdvisories.On("ListGlobalSecurityAdvisories", mock.Anything, afterCursor("")).Return(
			[]*github.GlobalSecurityAdvisory{
				newAdvisory("GHSA-aaaa-aaaa-aaaa"),
				newAdvisory("GHSA-bbbb-bbbb-bbbb"),
			},
			&github.Response{After: "cursor1"},
			nil,
		)

		client := gh.Client{
			Clock:      fakeClock,
			Advisories: mockAdvisories,
		}

		var calls int
		count, err := client.WalkAdvisories(context.Background(), gh.Filter{}, func(adv *github.GlobalSecurityAdvisory) error {
			calls++
			return errors.New("sink closed")
		})

		assert.EqualError(t, err, "sink closed")
		assert.Equal(t, 0, count)
		assert.Equal(t, 1, calls)
		mockAdvisories.AssertNumberOfCalls(t, "ListGlobalSecurityAdvisories", 1)
	})
}
