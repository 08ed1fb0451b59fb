// Package notify envoie les emails transactionnels de la boutique.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/wneessen/go-mail"

	"jamsfrag_back_end/internal/config"
	"jamsfrag_back_end/internal/models"
)

// Mailer envoie la confirmation de commande en SMTP. Si aucun hôte SMTP n'est
// configuré, l'envoi est loggé puis ignoré : l'email n'est jamais bloquant.
type Mailer struct {
	host        string
	username    string
	password    string
	from        string
	frontendURL string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:        cfg.SMTPHost,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		from:        cfg.MailFrom,
		frontendURL: cfg.FrontendURL,
	}
}

// OrderConfirmation envoie le récapitulatif de commande à l'adresse de livraison.
func (m *Mailer) OrderConfirmation(ctx context.Context, email string, order *models.Order) error {
	if m.host == "" {
		log.Printf("⚠️ SMTP non configuré, confirmation %s non envoyée", order.TrackingID)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(email); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("Confirmation de votre commande %s", order.TrackingID))
	msg.SetBodyString(mail.TypeTextHTML, m.confirmationHTML(order))

	client, err := mail.NewClient(m.host,
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail de confirmation à", email)
	return client.DialAndSendWithContext(ctx, msg)
}

func (m *Mailer) confirmationHTML(order *models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%.2f</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%.2f</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	trackingURL := fmt.Sprintf("%s/order-status/%s", m.frontendURL, order.TrackingID)

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Merci pour votre commande !</h2>
		<p>Bonjour %s,</p>
		<p>Votre commande <strong>%s</strong> a bien été enregistrée. Statut actuel : <strong>%s</strong>.</p>

		<h3>Détails de la commande</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Produit</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
		</table>

		<p style="font-size: 18px;"><strong>Total : %.2f</strong></p>
		<p>Mode de paiement : %s</p>
		<p>Suivez votre commande ici : <a href="%s">%s</a></p>

		<p style="color: #888; font-size: 12px; margin-top: 30px;">
			Cet email a été envoyé automatiquement, merci de ne pas y répondre.
		</p>
	</div>
</body>
</html>`,
		order.Shipping.Name, order.TrackingID, order.Status,
		itemsHTML, order.Total, order.PaymentMethod, trackingURL, trackingURL)
}
