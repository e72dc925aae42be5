package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchsync/models"
)

func TestDecode(t *testing.T) {
	t.Run("valid envelope", func(t *testing.T) {
		env, err := Decode([]byte(`{"type":"joinLobby","data":{"lobbyId":"abcDEF1234"}}`))
		require.NoError(t, err)
		assert.Equal(t, TypeJoinLobby, env.Type)

		var req JoinLobbyRequest
		require.NoError(t, env.Bind(&req))
		assert.Equal(t, "abcDEF1234", req.LobbyID)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":`))
		assert.Error(t, err)
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := Decode([]byte(`{"data":{}}`))
		assert.Error(t, err)
	})

	t.Run("bind without data", func(t *testing.T) {
		env, err := Decode([]byte(`{"type":"joinLobby"}`))
		require.NoError(t, err)
		var req JoinLobbyRequest
		assert.Error(t, env.Bind(&req))
	})

	t.Run("bind wrong shape", func(t *testing.T) {
		env, err := Decode([]byte(`{"type":"joinLobby","data":{"lobbyId":42}}`))
		require.NoError(t, err)
		var req JoinLobbyRequest
		assert.Error(t, env.Bind(&req))
	})
}

func TestEncodeRoundTrip(t *testing.T) {
	state := models.PlaybackState{
		VideoID:   "vid-1",
		Status:    models.StatusPlaying,
		Offset:    12.5,
		Timestamp: 1_700_000_000_000,
		Speed:     1.25,
	}

	raw, err := Encode(TypeUpdate, UpdatePayload{State: state})
	require.NoError(t, err)

	env, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, TypeUpdate, env.Type)

	var payload UpdatePayload
	require.NoError(t, env.Bind(&payload))
	assert.Equal(t, state, payload.State)
}

func TestEncodeNilPayload(t *testing.T) {
	raw, err := Encode(TypeLeftLobby, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"leftLobby"}`, string(raw))
}

func TestOpaqueSDPSurvivesRelayReencoding(t *testing.T) {
	// What arrives in sendOffer must leave receiveOffer byte-compatible.
	in := []byte(`{"type":"sendOffer","data":{"clientId":2,"sdp":{"type":"offer","sdp":"v=0\r\no=- 46117 2"}}}`)
	env, err := Decode(in)
	require.NoError(t, err)

	var req SendOfferRequest
	require.NoError(t, env.Bind(&req))

	out := MustEncode(TypeReceiveOffer, ReceiveOfferPayload{ClientID: 1, SDP: req.SDP})
	outEnv, err := Decode(out)
	require.NoError(t, err)

	var payload ReceiveOfferPayload
	require.NoError(t, outEnv.Bind(&payload))
	assert.JSONEq(t, string(req.SDP), string(payload.SDP))
}
