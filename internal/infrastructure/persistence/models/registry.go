package models

// All returns every persisted model, in dependency order
func All() []any {
	return []any{
		&ProductModel{},
		&OrderModel{},
		&SaleModel{},
		&ReceivableModel{},
		&PaymentModel{},
		&ReceivableLogModel{},
		&PayableModel{},
		&PayablePaymentModel{},
	}
}

// UniqueIndexes are the per-store uniqueness constraints. They are declared
// here rather than in struct tags because every one of them is composite
// on tenant_id.
var UniqueIndexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_tenant_sku ON products (tenant_id, sku)",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_tenant_number ON orders (tenant_id, order_number)",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_sales_tenant_number ON sales (tenant_id, sale_number)",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_receivables_tenant_number ON receivables (tenant_id, receivable_number)",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_receivables_tenant_order ON receivables (tenant_id, order_id)",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_payables_tenant_number ON payables (tenant_id, payable_number)",
}
