package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/quickbites/cartsync/internal/cart/app"
	"github.com/quickbites/cartsync/internal/cart/domain"
	"github.com/quickbites/cartsync/internal/cart/infra/rest"
	"github.com/quickbites/cartsync/internal/cart/infra/term"
	"github.com/quickbites/cartsync/pkg/config"
	"github.com/quickbites/cartsync/pkg/logger"
	"github.com/quickbites/cartsync/pkg/shutdown"
	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "cartcli",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
		Format:  "text",
		Out:     os.Stderr,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	client := rest.NewClient(cfg.CartAPIURL, cfg.CartAPIToken, &http.Client{Timeout: cfg.HTTPTimeout})
	store := app.NewStore(client, term.NewNotifier(os.Stdout), log)

	log.Info("connecting to cart service", slog.String("url", cfg.CartAPIURL))
	store.Fetch(ctx)
	render(store.Snapshot())

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	fmt.Print("> ")
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			log.Info("bye")
			return
		case line, ok := <-lines:
			if !ok {
				log.Info("bye")
				return
			}
			if quit := dispatch(ctx, store, line); quit {
				log.Info("bye")
				return
			}
			fmt.Print("> ")
		}
	}
}

func dispatch(ctx context.Context, store *app.Store, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "show":
		render(store.Snapshot())
	case "refresh":
		store.Fetch(ctx)
		render(store.Snapshot())
	case "count":
		fmt.Printf("%d item(s)\n", store.ItemCount())
	case "add":
		if len(args) < 3 {
			fmt.Println("usage: add <productID> <name> <price> [variant]")
			return false
		}
		price, err := decimal.NewFromString(args[2])
		if err != nil {
			fmt.Printf("bad price %q\n", args[2])
			return false
		}
		variant := ""
		if len(args) > 3 {
			variant = args[3]
		}
		product := domain.Product{ID: args[0], Name: args[1], Price: price}
		_ = store.AddItem(ctx, product, variant)
		render(store.Snapshot())
	case "inc":
		if len(args) != 1 {
			fmt.Println("usage: inc <lineID>")
			return false
		}
		_ = store.IncrementItem(ctx, args[0])
		render(store.Snapshot())
	case "dec":
		if len(args) != 1 {
			fmt.Println("usage: dec <lineID>")
			return false
		}
		_ = store.DecrementItem(ctx, args[0])
		render(store.Snapshot())
	case "rm":
		if len(args) != 1 {
			fmt.Println("usage: rm <lineID>")
			return false
		}
		_ = store.RemoveItem(ctx, args[0])
		render(store.Snapshot())
	case "clear":
		_ = store.Clear(ctx)
		render(store.Snapshot())
	case "coupon":
		if len(args) != 1 {
			fmt.Println("usage: coupon <code>")
			return false
		}
		_ = store.ApplyCoupon(ctx, args[0])
		render(store.Snapshot())
	case "nocoupon":
		_ = store.RemoveCoupon(ctx)
		render(store.Snapshot())
	case "quit", "exit":
		return true
	default:
		fmt.Println("commands: show refresh count add inc dec rm clear coupon nocoupon quit")
	}
	return false
}

func render(st app.State) {
	if len(st.Items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, l := range st.Items {
		name := l.Name
		if l.Variant != "" {
			name += " (" + l.Variant + ")"
		}
		id := l.LineID
		if id == "" {
			id = "pending"
		}
		fmt.Printf("  [%s] %-30s ₹%s x %d\n", id, name, l.UnitPrice, l.Quantity)
	}
	fmt.Printf("  subtotal ₹%s", st.Subtotal)
	if !st.DeliveryFee.IsZero() {
		fmt.Printf("  delivery ₹%s", st.DeliveryFee)
	}
	if !st.Discount.IsZero() {
		fmt.Printf("  discount -₹%s", st.Discount)
	}
	fmt.Printf("  total ₹%s\n", st.FinalTotal)
	if st.Coupon != nil {
		fmt.Printf("  coupon %s applied\n", st.Coupon.Code)
	}
}
