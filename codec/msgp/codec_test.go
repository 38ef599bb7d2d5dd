package msgp_test

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/tinylib/msgp/msgp"

	codec "github.com/teenjuna/vec/codec/msgp"
	"github.com/teenjuna/vec/internal/testing/require"
)

type Item struct {
	ID string
	N1 int
	N2 float64
}

func (z *Item) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.Require(b, z.Msgsize())
	o = msgp.AppendArrayHeader(o, 3)
	o = msgp.AppendString(o, z.ID)
	o = msgp.AppendInt(o, z.N1)
	o = msgp.AppendFloat64(o, z.N2)
	return o, nil
}

func (z *Item) UnmarshalMsg(bts []byte) ([]byte, error) {
	n, bts, err := msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return bts, err
	}
	if n != 3 {
		return bts, msgp.ArrayError{Wanted: 3, Got: n}
	}
	if z.ID, bts, err = msgp.ReadStringBytes(bts); err != nil {
		return bts, err
	}
	if z.N1, bts, err = msgp.ReadIntBytes(bts); err != nil {
		return bts, err
	}
	if z.N2, bts, err = msgp.ReadFloat64Bytes(bts); err != nil {
		return bts, err
	}
	return bts, nil
}

func (z *Item) Msgsize() int {
	return 1 + msgp.StringPrefixSize + len(z.ID) + msgp.IntSize + msgp.Float64Size
}

func TestCodec(t *testing.T) {
	c := codec.New[Item]()

	for range 2 {
		var items []Item
		for i := range 1000 {
			items = append(items, Item{
				ID: strconv.Itoa(i),
				N1: rand.IntN(1000),
				N2: rand.Float64() * 1000,
			})
		}

		data, err := c.Encode(slices.Values(items))
		require.Nil(t, err)
		require.NotEqual(t, len(data), 0)

		var decoded []Item
		err = c.Decode(data, func(item Item) {
			decoded = append(decoded, item)
		})
		require.Nil(t, err)
		require.Equal(t, decoded, items)

		derived := c.Derive()
		require.NotNil(t, derived)
	}
}

func TestCodecTruncated(t *testing.T) {
	c := codec.New[Item]()

	data, err := c.Encode(slices.Values([]Item{{ID: "a", N1: 1, N2: 1}}))
	require.Nil(t, err)

	err = c.Decode(data[:len(data)-1], func(Item) {})
	require.NotNil(t, err)
}
