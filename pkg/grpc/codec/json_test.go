package codec

import (
	"testing"

	"github.com/aarondl/opt/null"
	"gotest.tools/v3/assert"
)

type msg struct {
	ID    string            `json:"id"`
	Value null.Val[float64] `json:"value"`
}

func TestMarshalNull(t *testing.T) {
	data, err := JSON{}.Marshal(&msg{ID: "a"})
	assert.NilError(t, err)
	assert.Equal(t, `{"id":"a","value":null}`, string(data))
}

func TestUnmarshal(t *testing.T) {
	var m msg
	assert.NilError(t, JSON{}.Unmarshal([]byte(`{"id":"b","value":1.5}`), &m))
	assert.Equal(t, "b", m.ID)
	assert.Equal(t, 1.5, m.Value.GetOr(0))

	var empty msg
	assert.NilError(t, JSON{}.Unmarshal(nil, &empty))

	err := JSON{}.Unmarshal([]byte(`{`), &m)
	assert.ErrorContains(t, err, "unmarshal into *codec.msg")
}
