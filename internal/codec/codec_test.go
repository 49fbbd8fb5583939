package codec

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"hbnb/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		"State.1234": domain.Attributes{
			"id":         "1234",
			"created_at": "2017-09-28T21:03:54.052298",
			"updated_at": "2017-09-28T21:05:54.119427",
			"name":       "California",
			"__class__":  "State",
		},
		"Place.abcd": domain.Attributes{
			"id":          "abcd",
			"created_at":  "2017-09-28T21:03:54.052298",
			"updated_at":  "2017-09-28T21:03:54.052298",
			"max_guest":   4,
			"latitude":    37.5,
			"amenity_ids": []string{"x"},
			"__class__":   "Place",
		},
	}
}

func TestDocumentKeys(t *testing.T) {
	assert.Equal(t, []string{"Place.abcd", "State.1234"}, sampleDocument().Keys())
	assert.Empty(t, Document{}.Keys())
}

func TestForFormat(t *testing.T) {
	for _, name := range []string{"json", "yaml", "yml"} {
		c, ok := ForFormat(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, c.Format())
	}
	_, ok := ForFormat("xml")
	assert.False(t, ok)
}

func TestJSONCodec(t *testing.T) {
	c := NewJSONCodec()
	assert.Equal(t, "json", c.Format())

	t.Run("export then parse", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, c.Export(sampleDocument(), &buf))

		doc, err := c.Parse(&buf)
		require.NoError(t, err)
		require.Len(t, doc, 2)

		state := doc["State.1234"]
		assert.Equal(t, "California", state["name"])
		assert.Equal(t, "State", state["__class__"])

		place := doc["Place.abcd"]
		assert.Equal(t, json.Number("4"), place["max_guest"])
		assert.Equal(t, json.Number("37.5"), place["latitude"])
		assert.Equal(t, []any{"x"}, place["amenity_ids"])
	})

	t.Run("nil document exports as empty object", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, c.Export(nil, &buf))
		assert.Equal(t, "{}", strings.TrimSpace(buf.String()))
	})

	t.Run("malformed input", func(t *testing.T) {
		inputs := map[string]string{
			"not json":         "{not json",
			"array":            `[1, 2]`,
			"null":             `null`,
			"scalar record":    `{"State.1": 5}`,
			"trailing garbage": `{} {}`,
			"empty":            ``,
		}
		for name, input := range inputs {
			t.Run(name, func(t *testing.T) {
				_, err := c.Parse(strings.NewReader(input))
				assert.ErrorIs(t, err, ErrMalformedDocument)
			})
		}
	})

	t.Run("empty object", func(t *testing.T) {
		doc, err := c.Parse(strings.NewReader("{}\n"))
		require.NoError(t, err)
		assert.Empty(t, doc)
	})
}

func TestYAMLCodec(t *testing.T) {
	c := NewYAMLCodec()
	assert.Equal(t, "yaml", c.Format())

	t.Run("export then parse", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, c.Export(sampleDocument(), &buf))
		assert.Contains(t, buf.String(), "State.1234:")

		doc, err := c.Parse(&buf)
		require.NoError(t, err)
		require.Len(t, doc, 2)

		state := doc["State.1234"]
		assert.Equal(t, "California", state["name"])
		assert.Equal(t, "2017-09-28T21:05:54.119427", state["updated_at"])

		place := doc["Place.abcd"]
		assert.Equal(t, 4, place["max_guest"])
		assert.Equal(t, 37.5, place["latitude"])
	})

	t.Run("json numbers export as numbers", func(t *testing.T) {
		doc := Document{"BaseModel.1": domain.Attributes{
			"id":    "1",
			"stars": json.Number("5"),
			"ratio": json.Number("0.25"),
		}}
		var buf bytes.Buffer
		require.NoError(t, c.Export(doc, &buf))
		assert.Contains(t, buf.String(), "stars: 5\n")
		assert.Contains(t, buf.String(), "ratio: 0.25\n")
	})

	t.Run("unquoted timestamps stay strings", func(t *testing.T) {
		input := "User.1:\n  id: \"1\"\n  created_at: 2017-09-28T21:03:54.052298\n  __class__: User\n"
		doc, err := c.Parse(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, "2017-09-28T21:03:54.052298", doc["User.1"]["created_at"])
	})

	t.Run("empty input is an empty document", func(t *testing.T) {
		doc, err := c.Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, doc)
	})

	t.Run("malformed input", func(t *testing.T) {
		_, err := c.Parse(strings.NewReader("- a\n- b\n"))
		assert.ErrorIs(t, err, ErrMalformedDocument)

		_, err = c.Parse(strings.NewReader("User.1:\n"))
		assert.ErrorIs(t, err, ErrMalformedDocument)
	})
}
