package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"inkfeed/internal/core"
)

func TestParseDataURI(t *testing.T) {
	t.Parallel()

	data, mediaType, err := parseDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)

	require.Equal(t, []byte("hello"), data)
	require.Equal(t, "image/png", mediaType)
}

func TestParseDataURIRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"no scheme":       "image/png;base64,aGVsbG8=",
		"no comma":        "data:image/png;base64",
		"not base64 flag": "data:image/png;utf8,hello",
		"bad payload":     "data:image/png;base64,!!!",
	}

	for name, uri := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, _, err := parseDataURI(uri)
			require.ErrorIs(t, err, core.ErrValidation)
		})
	}
}

func TestCreatePostRequestBind(t *testing.T) {
	t.Parallel()

	valid := CreatePostRequest{
		Title:       strings.Repeat("t", 20),
		Description: strings.Repeat("d", 60),
		HTML:        strings.Repeat("h", 100),
	}
	require.NoError(t, valid.Bind(nil))

	short := valid
	short.Title = "too short"
	require.ErrorIs(t, short.Bind(nil), core.ErrValidation)

	short = valid
	short.Description = "too short"
	require.ErrorIs(t, short.Bind(nil), core.ErrValidation)

	short = valid
	short.HTML = "<p>hi</p>"
	require.ErrorIs(t, short.Bind(nil), core.ErrValidation)
}

func TestCommentRequestBind(t *testing.T) {
	t.Parallel()

	require.NoError(t, (&CommentRequest{Text: "nice"}).Bind(nil))
	require.ErrorIs(t, (&CommentRequest{Text: "no"}).Bind(nil), core.ErrValidation)
}
