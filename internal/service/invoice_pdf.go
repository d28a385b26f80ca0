package service

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"laboutique_erp_202610/internal/model"
)

// RenderInvoicePDF 生成发票 PDF
func RenderInvoicePDF(store *model.Store, inv *model.Invoice, order *model.Order) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(12).
		WithTopMargin(15).
		WithRightMargin(12).
		Build()

	m := maroto.New(cfg)

	addInvoiceHeader(m, store, inv)
	m.AddRow(4, line.NewCol(12))
	addInvoiceParties(m, inv, order)
	addInvoiceItems(m, inv, order)
	addInvoiceTotals(m, inv)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("生成PDF失败: %w", err)
	}
	return doc.GetBytes(), nil
}

func addInvoiceHeader(m core.Maroto, store *model.Store, inv *model.Invoice) {
	status := "ISSUED"
	switch inv.Status {
	case model.InvoiceStatusPaid:
		status = "PAID"
	case model.InvoiceStatusVoid:
		status = "VOID"
	}

	m.AddRow(24,
		col.New(6).Add(
			text.New(store.Name, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Left}),
			text.New(store.SupportEmail, props.Text{Size: 9, Top: 9, Align: align.Left}),
		),
		col.New(6).Add(
			text.New("INVOICE", props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right}),
			text.New(inv.InvoiceNumber, props.Text{Size: 10, Top: 8, Align: align.Right}),
			text.New(fmt.Sprintf("%s  |  %s", inv.IssuedAt.Format("Jan 02, 2006"), status), props.Text{Size: 9, Top: 14, Align: align.Right}),
		),
	)
}

func addInvoiceParties(m core.Maroto, inv *model.Invoice, order *model.Order) {
	addr := order.ShippingAddress
	shipTo := fmt.Sprintf("%s %s, %s %s %s", addr.Line1, addr.Line2, addr.PostalCode, addr.City, addr.Country)

	m.AddRow(26,
		col.New(6).Add(
			text.New("BILL TO", props.Text{Size: 9, Style: fontstyle.Bold}),
			text.New(inv.BillingName, props.Text{Size: 9, Top: 5}),
			text.New(inv.BillingEmail, props.Text{Size: 9, Top: 10}),
		),
		col.New(6).Add(
			text.New("ORDER", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
			text.New(order.OrderNumber, props.Text{Size: 9, Top: 5, Align: align.Right}),
			text.New(shipTo, props.Text{Size: 8, Top: 10, Align: align.Right}),
		),
	)
}

func addInvoiceItems(m core.Maroto, inv *model.Invoice, order *model.Order) {
	head := props.Text{Size: 9, Style: fontstyle.Bold}
	m.AddRow(8,
		col.New(6).Add(text.New("Item", head)),
		col.New(1).Add(text.New("Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Center})),
		col.New(2).Add(text.New("Unit", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
		col.New(3).Add(text.New("Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
	)
	m.AddRow(2, line.NewCol(12))

	for _, it := range order.Items {
		title := it.Title
		if it.Variant != "" {
			title = fmt.Sprintf("%s (%s)", it.Title, it.Variant)
		}
		m.AddRow(7,
			col.New(6).Add(text.New(title, props.Text{Size: 9})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 9, Align: align.Center})),
			col.New(2).Add(text.New(model.FormatMoney(it.UnitPrice, inv.Currency), props.Text{Size: 9, Align: align.Right})),
			col.New(3).Add(text.New(model.FormatMoney(it.LineTotal, inv.Currency), props.Text{Size: 9, Align: align.Right})),
		)
	}
	m.AddRow(3, line.NewCol(12))
}

func addInvoiceTotals(m core.Maroto, inv *model.Invoice) {
	rows := []struct {
		label  string
		amount int64
		bold   bool
	}{
		{"Subtotal", inv.Subtotal, false},
		{"Shipping", inv.ShippingFee, false},
		{"Tax", inv.Tax, false},
		{"Total", inv.Total, true},
	}
	for _, r := range rows {
		style := fontstyle.Normal
		if r.bold {
			style = fontstyle.Bold
		}
		m.AddRow(6,
			col.New(9).Add(text.New(r.label, props.Text{Size: 9, Style: style, Align: align.Right})),
			col.New(3).Add(text.New(model.FormatMoney(r.amount, inv.Currency), props.Text{Size: 9, Style: style, Align: align.Right})),
		)
	}
}
