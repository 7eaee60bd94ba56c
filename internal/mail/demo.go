package mail

// DemoProfile is the mailbox address reported in demo mode
const DemoProfile = "demo-user@example.com"

// DemoMessages returns the fixed demo inbox
func DemoMessages() []Email {
	return []Email{
		{
			ID:               "1",
			Sender:           "Netflix Support",
			SenderEmail:      "support-netflix-verification@quick-billing-update.com",
			Subject:          "Action Required: Your Payment Declined",
			Date:             "10:42 AM",
			IsRead:           false,
			InitialRiskLabel: LabelHighRisk,
			Body: `Hi Customer,

We attempted to authorize the Premium subscription payment for your account but were unable to do so. Your subscription has been paused.

To continue watching, please update your payment information immediately using the secure link below:

http://netflix-secure-update-billing.com/login

Failure to update within 24 hours will result in permanent account deletion.

The Netflix Team`,
		},
		{
			ID:               "2",
			Sender:           "Grandma Jenkins",
			SenderEmail:      "m.jenkins1954@gmail.com",
			Subject:          "Re: Cookie Recipe",
			Date:             "Yesterday",
			IsRead:           true,
			InitialRiskLabel: LabelSafe,
			Body: `Hi sweetie,

Here is the recipe you asked for! I usually add a little extra cinnamon. Let me know if you are coming over this weekend.

Love,
Grandma`,
		},
		{
			ID:               "3",
			Sender:           "HR Department",
			SenderEmail:      "hr-internal-notification@company-payroll-audit.net",
			Subject:          "Urgent: Payroll Information Needed",
			Date:             "Yesterday",
			IsRead:           false,
			InitialRiskLabel: LabelSuspicious,
			Body: `Employee,

We are upgrading our payroll system. You are required to confirm your direct deposit details to ensure you get paid this Friday.

Please log in to the employee portal here: http://workday-payroll-audit.net

If you do not verify, your paycheck may be delayed.

Regards,
Human Resources`,
		},
	}
}
