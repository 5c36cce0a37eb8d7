package builder

import (
	"github.com/fudgemsg/fudge-go/errs"
	"github.com/fudgemsg/fudge-go/message"
)

// Interface polymorphism is modeled as a tagged variant (spec.md §9): a
// small wrapper message carrying the variant's TypeID as a STRING field
// plus the payload as a nested sub-message, rather than relying on
// runtime type introspection to pick a decoder.
const (
	variantTagName     = "tag"
	variantPayloadName = "payload"
)

// EncodeVariant wraps v's message representation in a tagged-variant
// envelope: a "tag" STRING field naming v's registered TypeID and a
// "payload" SUB_MESSAGE field holding v's own fields.
func EncodeVariant(ctx *Context, v any) (*message.Message, error) {
	id, ok := ctx.reg.IDFor(v)
	if !ok {
		return nil, errs.ErrNoBuilderForType
	}

	inner, err := ToMessage(ctx, v)
	if err != nil {
		return nil, err
	}

	variant := message.New()
	variant.Add(message.NewString(string(id)).Named(variantTagName))
	variant.Add(message.NewSubMessage(inner).Named(variantPayloadName))

	return variant, nil
}

// DecodeVariant reads a tagged-variant message built by EncodeVariant and
// rebuilds the original value via the TypeID's registered fromMessage.
func DecodeVariant(ctx *Context, variant *message.Message) (any, error) {
	tagField, ok := variant.ByName(variantTagName)
	if !ok {
		return nil, errs.ErrFieldNotFound
	}
	tag, ok := tagField.Value().(string)
	if !ok {
		return nil, errs.ErrFieldNotFound
	}

	payloadField, ok := variant.ByName(variantPayloadName)
	if !ok {
		return nil, errs.ErrFieldNotFound
	}

	inner, err := asMessage(payloadField.Value())
	if err != nil {
		return nil, err
	}

	return FromMessage(ctx, TypeID(tag), inner)
}

// asMessage accepts either an eager *message.Message or a lazy
// *message.EncodedMessage sub-message value, materializing the latter,
// so callers never need to branch on which one a field happens to hold.
func asMessage(v any) (*message.Message, error) {
	switch sub := v.(type) {
	case *message.Message:
		return sub, nil
	case *message.EncodedMessage:
		return sub.Materialize()
	default:
		return nil, errs.ErrFieldNotFound
	}
}
