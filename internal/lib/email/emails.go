package email

func (c *Client) SendNewMessageEmail(to, recipientName, senderName, subject string) error {
	return c.SendEmail(
		to,
		"Nova mensagem: "+subject,
		TemplateNewMessage,
		map[string]string{
			"RecipientName": recipientName,
			"SenderName":    senderName,
			"Subject":       subject,
		},
	)
}

func (c *Client) SendPrescriptionEmail(to, patientName, professionalName, filename string, pdf []byte) error {
	return c.SendEmail(
		to,
		"Sua receita de "+professionalName,
		TemplatePrescription,
		map[string]string{
			"PatientName":      patientName,
			"ProfessionalName": professionalName,
		},
		Attachment{Filename: filename, Content: pdf},
	)
}
