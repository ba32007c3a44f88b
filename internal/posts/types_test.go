package posts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateInput_FrontImagePresence(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValue *ImageInput
	}{
		{"absent", `{"title":"hello"}`, false, nil},
		{"explicit null", `{"frontImage":null}`, true, nil},
		{"new image", `{"frontImage":{"src":"http://x/a.png","filename":"a.png"}}`, true, &ImageInput{Src: "http://x/a.png", Filename: "a.png"}},
		{"existing image", `{"frontImage":{"id":"abc"}}`, true, &ImageInput{ID: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var input UpdateInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &input))
			assert.Equal(t, tt.wantSet, input.FrontImage.Set)
			assert.Equal(t, tt.wantValue, input.FrontImage.Value)
		})
	}
}

func TestUpdateInput_GalleryPresence(t *testing.T) {
	var absent UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.Nil(t, absent.Gallery)

	var empty UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"gallery":[]}`), &empty))
	assert.NotNil(t, empty.Gallery)
	assert.Empty(t, empty.Gallery)
}

func TestOptionalImage_Marshal(t *testing.T) {
	data, err := json.Marshal(OptionalImage{})
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(data))

	data, err = json.Marshal(OptionalImage{Set: true, Value: &ImageInput{Src: "s", Filename: "f"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"src":"s","filename":"f"}`, string(data))
}

func TestImageInput_IsEmpty(t *testing.T) {
	var nilInput *ImageInput
	assert.True(t, nilInput.IsEmpty())
	assert.True(t, (&ImageInput{}).IsEmpty())
	assert.False(t, (&ImageInput{Filename: "a.png"}).IsEmpty())
}
