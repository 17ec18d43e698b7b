// Command cron runs one billing job pass from the command line:
//
//	cron generate-fees
//	cron check-subscriptions
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"academy-be/internal/bootstrap"
	"academy-be/internal/config"
	"academy-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	if len(os.Args) != 2 {
		color.Yellow("usage: cron generate-fees|check-subscriptions")
		os.Exit(2)
	}

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	container := bootstrap.NewContainer(db, cfg)
	defer container.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "generate-fees":
		color.Cyan("Generating fees...")
		res, err := container.CronService.GenerateFees(ctx)
		if err != nil {
			color.Red("Fee generation failed: %v", err)
			os.Exit(1)
		}
		color.Green("Generated: %d", res.Generated)
		fmt.Printf("Skipped: %d  Total: %d  Marked overdue: %d\n", res.Skipped, res.Total, res.MarkedOverdue)
		printErrors(res.Errors)

	case "check-subscriptions":
		color.Cyan("Checking subscriptions...")
		res, err := container.CronService.CheckSubscriptions(ctx)
		if err != nil {
			color.Red("Subscription check failed: %v", err)
			os.Exit(1)
		}
		color.Green("Expired: %d  Admins disabled: %d  Warnings sent: %d",
			res.SubscriptionsExpired, res.AdminsDisabled, res.WarningsSent)
		fmt.Printf("Total expired: %d  Total expiring: %d\n", res.TotalExpiredSubscriptions, res.TotalExpiringSubscriptions)
		printErrors(res.Errors)

	default:
		color.Red("unknown job %q", os.Args[1])
		os.Exit(2)
	}
}

func printErrors(n int) {
	if n > 0 {
		color.Red("Errors: %d (see log file)", n)
		return
	}
	color.Green("Errors: 0")
}
