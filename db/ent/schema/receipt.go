package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
)

type Receipt struct{ ent.Schema }

func (Receipt) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "receipts"},
	}
}

func (Receipt) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("store_name").NotEmpty(),
		field.Time("purchase_date").
			SchemaType(map[string]string{dialect.Postgres: "date"}),
		// false when the date was substituted from the file's upload time
		// because the parser found none on the receipt.
		field.Bool("date_found").Default(true),
		field.Float("total_amount").
			SchemaType(map[string]string{dialect.Postgres: "numeric(12,2)"}),
		field.Time("created_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (Receipt) Edges() []ent.Edge {
	return []ent.Edge{
		// ONE receipt -> MANY items
		edge.To("items", ReceiptItem.Type),
		// ONE receipt -> MANY jobs
		edge.To("jobs", ExtractJob.Type),
	}
}

func (Receipt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("purchase_date"),
		index.Fields("store_name"),
	}
}
