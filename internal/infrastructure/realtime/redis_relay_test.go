package realtime

import (
	"context"
	"testing"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	pkgredis "github.com/TRAPZZY/AGRO--007-sub000/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRelay_RoundTripsBetweenHubs(t *testing.T) {
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis not available in this environment: %v", err)
	}
	defer srv.Close()

	prev := pkgredis.GetClient()
	t.Cleanup(func() { pkgredis.SetClient(prev) })
	pkgredis.SetClient(goredis.NewClient(&goredis.Options{Addr: srv.Addr()}))

	ctx := context.Background()
	hubA, hubB := NewHub(8), NewHub(8)
	defer hubA.Close()
	defer hubB.Close()

	relayA := NewRedisRelay(hubA, "agro:test")
	relayB := NewRedisRelay(hubB, "agro:test")
	require.NoError(t, relayA.Start(ctx))
	require.NoError(t, relayB.Start(ctx))
	defer relayA.Stop()
	defer relayB.Stop()
	<-relayA.Ready()
	<-relayB.Ready()

	subA := relayA.Subscribe(entities.TableInvestments, nil)
	subB := relayB.Subscribe(entities.TableInvestments, nil)

	require.NoError(t, relayA.Publish(ctx, mustEvent(t, entities.TableInvestments, entities.ChangeInsert, row{ID: "inv-1", Status: "active"})))

	for _, sub := range []interface {
		Events() <-chan entities.ChangeEvent
	}{subA, subB} {
		ev := receive(t, sub.Events())
		assert.Equal(t, entities.TableInvestments, ev.Table)
		assert.JSONEq(t, `{"id":"inv-1","status":"active"}`, string(ev.New))
	}

	// malformed payloads are discarded without stopping the relay
	require.NoError(t, pkgredis.Publish(ctx, "agro:test", "{not json"))
	require.NoError(t, relayA.Publish(ctx, mustEvent(t, entities.TableInvestments, entities.ChangeUpdate, row{ID: "inv-1", Status: "completed"})))
	assert.Equal(t, entities.ChangeUpdate, receive(t, subB.Events()).Type)
}
