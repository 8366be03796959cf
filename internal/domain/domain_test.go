package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestProductQuantitiesKeepInsertionOrder(t *testing.T) {
	var pq ProductQuantities
	pq = pq.Add("Scarf", 1).Add("T-Shirt", 2).Add("Scarf", 2)

	raw, err := json.Marshal(pq)
	require.NoError(t, err)
	require.Equal(t, `{"Scarf":3,"T-Shirt":2}`, string(raw))

	var decoded ProductQuantities
	require.NoError(t, json.Unmarshal([]byte(`{"Zip Hoodie":1,"Apron":4,"Beanie":2}`), &decoded))
	require.Equal(t, ProductQuantities{
		{Product: "Zip Hoodie", Quantity: 1},
		{Product: "Apron", Quantity: 4},
		{Product: "Beanie", Quantity: 2},
	}, decoded)
	require.Equal(t, 4, decoded.Quantity("Apron"))
	require.Zero(t, decoded.Quantity("Socks"))

	require.Error(t, json.Unmarshal([]byte(`["Apron"]`), &decoded))
}

func TestProductQuantitiesRejectFractions(t *testing.T) {
	for _, body := range []string{`{"T-Shirt":2.9}`, `{"T-Shirt":1e12}`, `{"T-Shirt":1e30}`} {
		var decoded ProductQuantities
		require.ErrorIs(t, json.Unmarshal([]byte(body), &decoded), ErrInvalidQuantity, body)
	}

	var decoded ProductQuantities
	require.NoError(t, json.Unmarshal([]byte(`{"T-Shirt":-1,"Mug":1000000000000}`), &decoded))
	require.Equal(t, -1, decoded.Quantity("T-Shirt"))
	require.Equal(t, 1000000000000, decoded.Quantity("Mug"))
}

func TestLegacyOrderDefaultsToPlaced(t *testing.T) {
	var order Order
	require.NoError(t, json.Unmarshal([]byte(`{"orderDate":"2024-05-01T10:00:00.000Z","products":{"T-Shirt":2}}`), &order))
	require.Equal(t, uuid.Nil, order.ID)
	require.Equal(t, SourcePlaced, order.EffectiveSource())
	require.Equal(t, ActionAddToInventory, ActionFor(order.EffectiveSource()))
	require.Equal(t, ActionShip, ActionFor(SourceShipped))
}

func TestRawMaterialLegacyNumbersAndMissingStock(t *testing.T) {
	var m RawMaterial
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Cotton","unit":"m","pricePerUnit":2.5}`), &m))
	require.True(t, m.PricePerUnit.Equal(decimal.RequireFromString("2.5")))
	require.Nil(t, m.AvailableQuantity)
	require.True(t, m.Available().IsZero())
}

func TestProductionStateItemRoundTrip(t *testing.T) {
	id := ItemID{OrderID: uuid.New(), Product: "T-Shirt", Unit: 1}
	var state ProductionState
	require.Empty(t, state.Item(id).Steps)

	state.Put(id, ItemProgress{Steps: map[int]bool{0: true}})
	raw, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded ProductionState
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.True(t, decoded.Item(id).Steps[0])
	require.False(t, decoded.Item(ItemID{OrderID: id.OrderID, Product: "T-Shirt", Unit: 0}).Steps[0])
}
