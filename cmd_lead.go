package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/decker502/halabi/pkg/config"
	"github.com/decker502/halabi/pkg/leads"
)

// lead 子命令参数
var (
	leadOpen bool
	leadCopy bool

	contactForm leads.Contact
	bookingForm leads.Booking
	serviceForm leads.NewService
)

// leadCmd 线索表单命令组
var leadCmd = &cobra.Command{
	Use:   "lead",
	Short: "Build WhatsApp deep links for the lead forms",
	Long: `Formats a lead form as a WhatsApp message and prints the deep link.

Available subcommands:
  contact    - General enquiry
  booking    - Package booking
  service    - New service listing request
  order      - Order a service by id or title
  portfolio  - Order a piece like one in the portfolio
  video      - Ask for a video like one in the showcase
  vip        - Request a VIP consultation

Use --copy to copy the link to the clipboard or --open to open it.`,
}

var leadContactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Contact form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendLead(cmd, contactForm.Message())
	},
}

var leadBookingCmd = &cobra.Command{
	Use:   "booking",
	Short: "Package booking form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendLead(cmd, bookingForm.Message())
	},
}

var leadServiceCmd = &cobra.Command{
	Use:   "service",
	Short: "New service listing form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendLead(cmd, serviceForm.Message())
	},
}

var leadOrderCmd = &cobra.Command{
	Use:   "order [service]",
	Short: "Order a service",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		if siteCfg, err := config.NewLoader(configDir).LoadSite(); err == nil {
			if svc, ok := siteCfg.Service(title); ok {
				title = svc.Title
			}
		}
		return sendLead(cmd, leads.ServiceOrder(title))
	},
}

var leadPortfolioCmd = &cobra.Command{
	Use:   "portfolio [title]",
	Short: "Order a portfolio item",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendLead(cmd, leads.PortfolioOrder(strings.Join(args, " ")))
	},
}

var leadVideoCmd = &cobra.Command{
	Use:   "video [title]",
	Short: "Request a similar video",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendLead(cmd, leads.SimilarVideo(strings.Join(args, " ")))
	},
}

var leadVIPCmd = &cobra.Command{
	Use:   "vip",
	Short: "VIP consultation request",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendLead(cmd, leads.VIPConsultation())
	},
}

func init() {
	leadCmd.PersistentFlags().BoolVar(&leadOpen, "open", false, "Open the link in the browser")
	leadCmd.PersistentFlags().BoolVar(&leadCopy, "copy", false, "Copy the link to the clipboard")

	f := leadContactCmd.Flags()
	f.StringVar(&contactForm.Name, "name", "", "Your name")
	f.StringVar(&contactForm.Phone, "phone", "", "Your phone number")
	f.StringVar(&contactForm.ServiceType, "service", "", "Service you are interested in")
	f.StringVar(&contactForm.Details, "message", "", "Details")

	f = leadBookingCmd.Flags()
	f.StringVar(&bookingForm.PackageTitle, "package", "", "Package title")
	f.StringVar(&bookingForm.PackagePrice, "price", "", "Package price")
	f.StringVar(&bookingForm.Name, "name", "", "Your name")
	f.StringVar(&bookingForm.Phone, "phone", "", "Your phone number")
	f.StringVar(&bookingForm.Notes, "notes", "", "Notes")

	f = leadServiceCmd.Flags()
	f.StringVar(&serviceForm.Name, "name", "", "Provider name")
	f.StringVar(&serviceForm.Phone, "phone", "", "Provider phone number")
	f.StringVar(&serviceForm.ServiceName, "service", "", "Service name")
	f.StringVar(&serviceForm.Category, "category", "", "Category")
	f.StringVar(&serviceForm.City, "city", "", "City")
	f.StringVar(&serviceForm.Price, "price", "", "Starting price")
	f.StringVar(&serviceForm.Description, "description", "", "Description")

	leadCmd.AddCommand(leadContactCmd)
	leadCmd.AddCommand(leadBookingCmd)
	leadCmd.AddCommand(leadServiceCmd)
	leadCmd.AddCommand(leadOrderCmd)
	leadCmd.AddCommand(leadPortfolioCmd)
	leadCmd.AddCommand(leadVideoCmd)
	leadCmd.AddCommand(leadVIPCmd)
}

// sendLead 打印链接，按参数打开或复制
func sendLead(cmd *cobra.Command, message string) error {
	siteCfg, err := config.NewLoader(configDir).LoadSite()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !leadOpen && !leadCopy {
		link, err := leads.Link(siteCfg.Phone, message)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, link)
		return nil
	}

	var opener leads.Opener
	if leadOpen {
		opener = leads.SystemOpener{}
	}
	res, err := leads.NewDispatcher(siteCfg.Phone, opener).Send(message)
	if res.Link != "" {
		fmt.Fprintln(out, res.Link)
	}
	if err != nil {
		return err
	}
	switch {
	case res.Opened:
		printMuted(out, "Opened in the browser.")
	case res.Copied:
		printMuted(out, "Copied to the clipboard.")
	}
	return nil
}
