package simulator_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchview/benchview/internal/bridge"
	"github.com/benchview/benchview/internal/infrastructure/simulator"
)

func TestRunScenario_PublishesEveryStep(t *testing.T) {
	srv, ts := newTestServer(t)
	reader := openStream(t, ts.URL)

	require.Eventually(t, func() bool {
		return srv.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	steps := []simulator.ScenarioStep{
		{Command: bridge.SetURL{URL: "https://first.example"}},
		{Delay: time.Millisecond, Command: bridge.TogglePanel{}},
		{Delay: time.Millisecond, Command: bridge.TriggerStep{Step: "flash_firmware"}},
	}

	require.NoError(t, srv.RunScenario(context.Background(), steps))

	var got []bridge.Command
	for range steps {
		cmd, err := bridge.DecodeCommand(readData(t, reader))
		require.NoError(t, err)
		got = append(got, cmd)
	}

	assert.Equal(t, []bridge.Command{
		bridge.SetURL{URL: "https://first.example"},
		bridge.TogglePanel{},
		bridge.TriggerStep{Step: "flash_firmware"},
	}, got)
}

func TestRunScenario_StopsOnCancel(t *testing.T) {
	srv := simulator.NewServer(zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	steps := []simulator.ScenarioStep{
		{Delay: time.Minute, Command: bridge.TogglePanel{}},
	}

	start := time.Now()
	err := srv.RunScenario(ctx, steps)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDemoScenario_AllStepsDecodable(t *testing.T) {
	steps := simulator.DemoScenario()
	require.NotEmpty(t, steps)

	for _, step := range steps {
		data, err := bridge.EncodeCommand(step.Command)
		require.NoError(t, err)

		_, err = bridge.DecodeCommand(data)
		require.NoError(t, err)
	}
}
