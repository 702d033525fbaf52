// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateReceipt generates a PDF receipt for a committed order
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	data := receiptData{
		OrderNumber:     o.OrderNumber,
		OrderDate:       o.CreatedAt.Format("02/01/2006 15:04"),
		Status:          string(o.Status),
		PaymentMethod:   paymentMethodLabel(o.PaymentMethod),
		ShippingAddress: o.ShippingAddress,
		Subtotal:        formatBRL(o.SubtotalAmount.StringFixed(2)),
		Shipping:        formatBRL(o.ShippingAmount.StringFixed(2)),
		Total:           formatBRL(o.TotalAmount.StringFixed(2)),
		MerchantName:    s.config.Payment.MerchantName,
		MerchantCity:    s.config.Payment.MerchantCity,
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, receiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: formatBRL(item.UnitPrice.StringFixed(2)),
			Total:     formatBRL(item.Total().StringFixed(2)),
		})
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data receiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func formatBRL(fixed string) string {
	return "R$ " + fixed
}

func paymentMethodLabel(m order.PaymentMethod) string {
	switch m {
	case order.PaymentMethodPix:
		return "Pix"
	case order.PaymentMethodCard:
		return "Cartão de Crédito"
	default:
		return string(m)
	}
}

type receiptData struct {
	OrderNumber     string
	OrderDate       string
	Status          string
	PaymentMethod   string
	ShippingAddress string
	Items           []receiptItem
	Subtotal        string
	Shipping        string
	Total           string
	MerchantName    string
	MerchantCity    string
}

type receiptItem struct {
	Name      string
	Quantity  int
	UnitPrice string
	Total     string
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Recibo {{.OrderNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .merchant-info {
            flex: 1;
        }
        .receipt-info {
            text-align: right;
            flex: 1;
        }
        .receipt-title {
            font-size: 28px;
            font-weight: bold;
            color: #6B4950;
            margin-bottom: 10px;
        }
        .order-details {
            margin-bottom: 30px;
        }
        .order-details td {
            padding: 5px 0;
            vertical-align: top;
        }
        .order-details .label {
            font-weight: bold;
            width: 150px;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 100px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 120px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
        .status-badge {
            display: inline-block;
            padding: 4px 8px;
            border-radius: 4px;
            font-size: 12px;
            font-weight: bold;
            text-transform: uppercase;
            background-color: #dcfce7;
            color: #166534;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="merchant-info">
            <h1>{{.MerchantName}}</h1>
            <p>{{.MerchantCity}}</p>
        </div>
        <div class="receipt-info">
            <div class="receipt-title">RECIBO</div>
            <p><strong>Pedido:</strong> {{.OrderNumber}}</p>
            <p><strong>Data:</strong> {{.OrderDate}}</p>
        </div>
    </div>

    <div class="order-details">
        <table>
            <tr>
                <td class="label">Pagamento:</td>
                <td>{{.PaymentMethod}}</td>
                <td class="label" style="text-align: right;">Status:</td>
                <td style="text-align: right;">
                    <span class="status-badge">{{.Status}}</span>
                </td>
            </tr>
            <tr>
                <td class="label">Entrega:</td>
                <td colspan="3">{{.ShippingAddress}}</td>
            </tr>
        </table>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Produto</th>
                <th class="qty-col">Qtd</th>
                <th class="price-col">Preço</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr>
                <td><strong>{{.Name}}</strong></td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{.UnitPrice}}</td>
                <td class="total-col">{{.Total}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal:</td>
                <td class="amount">{{.Subtotal}}</td>
            </tr>
            <tr>
                <td class="label">Frete:</td>
                <td class="amount">{{.Shipping}}</td>
            </tr>
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">{{.Total}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Obrigado pela sua compra!</p>
    </div>
</body>
</html>
`
