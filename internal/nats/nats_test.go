package nats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubjectFor(t *testing.T) {
	tests := []struct {
		state, season, want string
	}{
		{"Punjab", "Kharif", "smartagri.history.punjab.kharif"},
		{"Uttar Pradesh", "Rabi", "smartagri.history.uttar-pradesh.rabi"},
		{"", "Summer", "smartagri.history.unknown.summer"},
		{"a.b*c>", "", "smartagri.history.a-b-c.unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, SubjectFor(tt.state, tt.season))
		})
	}
}

func TestSubjectFilter(t *testing.T) {
	require.Equal(t, "smartagri.history.>", SubjectFilter(""))
	require.Equal(t, "smartagri.history.tamil-nadu.*", SubjectFilter("Tamil Nadu"))
}

func TestStart_CreatesStream(t *testing.T) {
	ctx := context.Background()
	e, err := Start(ctx, t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, e.Close()) }()

	info, err := e.Stream.Info(ctx)
	require.NoError(t, err)
	require.Equal(t, StreamName, info.Config.Name)
	require.Equal(t, Retention, info.Config.MaxAge)

	ack, err := e.JetStream.Publish(ctx, SubjectFor("Kerala", "Kharif"), []byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, uint64(1), ack.Sequence)
}

func TestStart_ReopensExistingData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	e, err := Start(ctx, dir)
	require.NoError(t, err)
	_, err = e.JetStream.Publish(ctx, SubjectFor("Bihar", "Rabi"), []byte(`{}`))
	require.NoError(t, err)
	require.NoError(t, e.Close())

	e, err = Start(ctx, dir)
	require.NoError(t, err)
	defer func() { _ = e.Close() }()

	info, err := e.Stream.Info(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), info.State.Msgs)
}

func TestEmbedded_CloseNil(t *testing.T) {
	var e *Embedded
	require.NoError(t, e.Close())
}
