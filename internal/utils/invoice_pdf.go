package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"bazario_back_end/internal/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// RenderInvoicePDF imprime la facture HTML d'une commande en PDF via
// un Chrome headless. Le HTML est embarqué dans une URL data: pour ne
// dépendre d'aucun frontend.
func RenderInvoicePDF(view models.OrderView) ([]byte, error) {
	html := GenerateInvoiceHTML(view)
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate(dataURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}

// GenerateInvoiceHTML génère le HTML de facture imprimé par RenderInvoicePDF
func GenerateInvoiceHTML(view models.OrderView) string {
	customerLine := ""
	if view.Customer != nil {
		customerLine = fmt.Sprintf("<p>%s — %s</p>", view.Customer.Name, view.Customer.Email)
	}

	rows := ""
	for _, item := range view.Details {
		title := item.Title
		if title == "" {
			title = item.ProductID
		}
		rows += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%.2f€</td>
				<td>%.2f€</td>
			</tr>`, title, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Facture %s</title>
	<style>
		body { font-family: Arial, sans-serif; padding: 40px; }
		table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
		th, td { padding: 8px; border: 1px solid #ddd; text-align: left; }
		th { background-color: #f0f0f0; }
	</style>
</head>
<body>
	<h1>Facture</h1>
	<p>Commande <strong>%s</strong> — %s</p>
	%s
	<table>
		<thead>
			<tr><th>Produit</th><th>Quantité</th><th>Prix unitaire</th><th>Total</th></tr>
		</thead>
		<tbody>%s</tbody>
	</table>
	<p style="text-align: right; font-size: 18px;"><strong>Total : %.2f€</strong></p>
</body>
</html>`, view.ID, view.ID, view.CreatedAt.Format("02/01/2006"), customerLine, rows, view.TotalAmount)
}
