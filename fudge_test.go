package fudge

import (
	"testing"

	"github.com/fudgemsg/fudge-go/builder"
	"github.com/fudgemsg/fudge-go/envelope"
	"github.com/fudgemsg/fudge-go/message"
	"github.com/fudgemsg/fudge-go/taxonomy"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	m := NewMessage().
		Add(message.NewString("example").Named("name")).
		Add(message.NewInt(7).WithOrdinal(1))

	data, err := Marshal(m, envelope.WithSchemaVersion(1))
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.True(t, got.Equal(m))
}

func TestUnmarshalUsesDefaultResolver(t *testing.T) {
	b := taxonomy.NewBuilder()
	b.Add(1, "price")
	tax, err := b.Build()
	require.NoError(t, err)

	RegisterTaxonomy(42, tax)

	m := NewMessage().Add(message.NewInt(9).Named("price"))
	data, err := Marshal(m, envelope.WithTaxonomy(tax), envelope.WithTaxonomyID(42))
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)

	f, ok := got.ByName("price")
	require.True(t, ok)
	require.Equal(t, int32(9), f.Value())
}

type widget struct {
	Label string
}

func TestRegisterBuilderAndToFromMessage(t *testing.T) {
	RegisterBuilder(&widget{}, "widget", nil,
		func(_ *builder.Context, v any) (*message.Message, error) {
			w := v.(*widget)
			return message.New().Add(message.NewString(w.Label).Named("label")), nil
		},
		func(_ *builder.Context, m *message.Message) (any, error) {
			label, _ := m.GetString("label")
			return &widget{Label: label}, nil
		},
	)

	m, err := ToMessage(&widget{Label: "gizmo"})
	require.NoError(t, err)

	v, err := FromMessage("widget", m)
	require.NoError(t, err)
	require.Equal(t, &widget{Label: "gizmo"}, v)
}
