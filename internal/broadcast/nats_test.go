package broadcast

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/recipefeed/internal/fetch"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/outcome"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
)

type published struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return nil
}

func TestSubject(t *testing.T) {
	require.Equal(t, "recipefeed.outcomes.search.fallback", Subject("recipefeed.outcomes", recipes.SearchResults, fetch.ChannelFallback))
}

func TestNATSObserverPublishesBothChannels(t *testing.T) {
	pub := &fakePublisher{}
	obs := NewNATSObserver[recipes.Joke](pub, "feed", recipes.FoodJoke)
	obs.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	req := fetch.NewRequest(recipes.FoodJoke, nil)

	obs.OnPrimary(req, outcome.Error[recipes.Joke]("API Key Limited."))
	obs.OnFallback(req, outcome.Success(recipes.Joke{Text: "cached joke"}))

	require.Len(t, pub.msgs, 2)
	require.Equal(t, "feed.joke.primary", pub.msgs[0].subject)
	require.Equal(t, "feed.joke.fallback", pub.msgs[1].subject)

	var env Envelope
	require.NoError(t, json.Unmarshal(pub.msgs[1].data, &env))
	require.Equal(t, req.ID().String(), env.RequestID)
	require.Equal(t, recipes.FoodJoke, env.Kind)
	require.Equal(t, fetch.ChannelFallback, env.Channel)
	require.True(t, env.Timestamp.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))

	var decoded outcome.Outcome[recipes.Joke]
	require.NoError(t, json.Unmarshal(env.Outcome, &decoded))
	require.Equal(t, outcome.Success(recipes.Joke{Text: "cached joke"}), decoded)
}

func TestNATSObserverSwallowsPublishErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.BrokerError("connection closed").Build()}
	obs := NewNATSObserver[int](pub, "feed", recipes.PrimaryList)
	require.NotPanics(t, func() {
		obs.OnPrimary(fetch.NewRequest(recipes.PrimaryList, nil), outcome.Loading[int]())
	})
	require.Empty(t, pub.msgs)
}

func TestNATSObserverWorksBehindHub(t *testing.T) {
	pub := &fakePublisher{}
	hub := fetch.NewHub[int]()
	defer hub.Subscribe(NewNATSObserver[int](pub, "feed", recipes.PrimaryList))()

	hub.OnPrimary(fetch.NewRequest(recipes.PrimaryList, nil), outcome.Success(4))
	require.Len(t, pub.msgs, 1)
	require.Equal(t, "feed.recipes.primary", pub.msgs[0].subject)
}
