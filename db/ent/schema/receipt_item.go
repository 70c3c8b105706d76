package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
)

type ReceiptItem struct{ ent.Schema }

func (ReceiptItem) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "receipt_items"},
	}
}

func (ReceiptItem) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		// explicit FK so the repository can filter without loading edges
		field.UUID("receipt_id", uuid.UUID{}),
		field.String("name").NotEmpty(),
		field.Int("quantity").Positive(),
		field.Float("unit_price").
			SchemaType(map[string]string{dialect.Postgres: "numeric(12,2)"}),
	}
}

func (ReceiptItem) Edges() []ent.Edge {
	return []ent.Edge{
		// MANY items -> ONE receipt
		edge.From("receipt", Receipt.Type).
			Ref("items").
			Field("receipt_id").
			Required().
			Unique(),
	}
}

func (ReceiptItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("receipt_id"),
	}
}
