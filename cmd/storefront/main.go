package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Apurer/go-gin-storefront/internal/cart"
	"github.com/Apurer/go-gin-storefront/internal/checkout"
	"github.com/Apurer/go-gin-storefront/internal/clients/http/storefront"
	"github.com/Apurer/go-gin-storefront/internal/shared/pricing"
)

const usage = `usage: storefront <command> [arguments]

commands:
  products [-category c]         list visible products
  featured                       list featured products
  product <slug>                 show one product
  cart                           show the cart
  add <slug> <size> [qty]        add a product to the cart
  remove <slug> <size>           remove a cart line
  qty <slug> <size> <n>          set a line quantity (0 removes)
  clear                          empty the cart
  checkout -name n -email e      place an order for the cart
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}
}

type app struct {
	client *storefront.Client
	cart   *cart.Store
	out    io.Writer
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return nil
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client, err := storefront.NewClient(envDefault("STOREFRONT_API_URL", "http://localhost:8080"), nil)
	if err != nil {
		return err
	}
	dir, key, err := cartLocation()
	if err != nil {
		return err
	}
	a := &app{
		client: client,
		cart:   cart.NewStore(cart.NewFileStorage(dir), cart.WithStorageKey(key), cart.WithLogger(logger)),
		out:    out,
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "products":
		return a.products(ctx, rest)
	case "featured":
		return a.featured(ctx)
	case "product":
		return a.product(ctx, rest)
	case "cart":
		return a.showCart()
	case "add":
		return a.add(ctx, rest)
	case "remove":
		if len(rest) != 2 {
			return errors.New("usage: remove <slug> <size>")
		}
		a.cart.RemoveFromCart(strings.TrimSpace(rest[0]), normalizeSize(rest[1]))
		return a.showCart()
	case "qty":
		if len(rest) != 3 {
			return errors.New("usage: qty <slug> <size> <n>")
		}
		n, err := strconv.Atoi(rest[2])
		if err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
		a.cart.UpdateQuantity(strings.TrimSpace(rest[0]), normalizeSize(rest[1]), n)
		return a.showCart()
	case "clear":
		a.cart.ClearCart()
		fmt.Fprintln(out, "cart cleared")
		return nil
	case "checkout":
		return a.checkout(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	category := fs.String("category", "", "filter by category")
	if err := fs.Parse(args); err != nil {
		return err
	}
	products, err := a.client.ListProducts(ctx, storefront.ListProductsParams{Category: *category})
	if err != nil {
		return err
	}
	a.printProducts(products)
	return nil
}

func (a *app) featured(ctx context.Context) error {
	products, err := a.client.GetFeaturedProducts(ctx)
	if err != nil {
		return err
	}
	a.printProducts(products)
	return nil
}

func (a *app) printProducts(products []storefront.Product) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tNAME\tPRICE\tCATEGORY")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Slug, p.Name, displayPrice(p.Price, p.Discount), p.Category)
	}
	tw.Flush()
}

func (a *app) product(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: product <slug>")
	}
	p, err := a.client.GetProductBySlug(ctx, args[0])
	if storefront.IsNotFound(err) {
		return fmt.Errorf("no product with slug %q", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n%s\n\n%s\n", p.Name, p.Slug, displayPrice(p.Price, p.Discount), p.Description)
	for _, d := range p.Details {
		fmt.Fprintf(a.out, "  - %s\n", d)
	}
	if len(p.Variants) > 0 {
		names := make([]string, 0, len(p.Variants))
		for _, v := range p.Variants {
			names = append(names, v.Name+" ("+v.Slug+")")
		}
		fmt.Fprintf(a.out, "colours: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(a.out, "sizes: %s\n", strings.Join(cart.Sizes, " "))
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: add <slug> <size> [qty]")
	}
	qty := 1
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
		qty = n
	}
	p, err := a.client.GetProductBySlug(ctx, args[0])
	if err != nil {
		return err
	}
	a.cart.AddToCart(cart.ProductSnapshot{
		ID:       p.ID,
		Slug:     p.Slug,
		Name:     p.Name,
		Price:    p.Price,
		Discount: p.Discount,
		Image:    p.Image,
		Category: p.Category,
	}, p.Slug, normalizeSize(args[1]), qty)
	return a.showCart()
}

// normalizeSize makes "m" and " M" address the same cart line.
func normalizeSize(size string) string {
	return strings.ToUpper(strings.TrimSpace(size))
}

func (a *app) showCart() error {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "cart is empty")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tSIZE\tQTY\tPRICE")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", item.Product.Name, item.Size, item.Quantity, item.Product.Price)
	}
	totals := checkout.Summary(a.cart)
	fmt.Fprintf(tw, "\t\t\t\nsubtotal\t\t%d\t%s\n", a.cart.CartCount(), pricing.FormatEUR(totals.Subtotal))
	fmt.Fprintf(tw, "shipping\t\t\t%s\n", pricing.FormatEUR(totals.Shipping))
	fmt.Fprintf(tw, "total\t\t\t%s\n", pricing.FormatEUR(totals.Total))
	return tw.Flush()
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	name := fs.String("name", "", "customer name")
	email := fs.String("email", "", "customer email")
	key := fs.String("key", "", "idempotency key; reuse it to retry a failed submission")
	if err := fs.Parse(args); err != nil {
		return err
	}
	order, err := checkout.New(a.cart, a.client).Submit(ctx, checkout.Customer{Name: *name, Email: *email, IdempotencyKey: *key})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "order %s placed (%s), total %s\n", order.ID, order.Status, pricing.FormatEUR(order.Total))
	return nil
}

func displayPrice(price string, discount int) string {
	if discount <= 0 {
		return price
	}
	discounted, err := pricing.DiscountedDisplayPrice(price, discount)
	if err != nil {
		return price
	}
	return fmt.Sprintf("%s (-%d%% %s)", price, discount, pricing.FormatEUR(discounted))
}

// cartLocation splits STOREFRONT_CART_FILE into the storage directory and key.
func cartLocation() (string, string, error) {
	path := strings.TrimSpace(os.Getenv("STOREFRONT_CART_FILE"))
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", fmt.Errorf("locate cart file: %w", err)
		}
		path = filepath.Join(home, ".storefront", "cart.json")
	}
	key := strings.TrimSuffix(filepath.Base(path), ".json")
	return filepath.Dir(path), key, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
