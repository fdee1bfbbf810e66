package api

import (
	"context"
	"errors"
	"fmt"

	catalogtypes "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

const (
	hoodiePrice       = "€280"
	hoodieComposition = "100% Upcycled Polyester Fleece"
	hoodieCare        = "Machine wash cold, tumble dry low"
	hoodieSizing      = "Model is 6'0\" wearing size M. Fits true to size with a relaxed fit."
	hoodieSustain     = "This garment is made from deadstock fabric sourced from luxury fashion houses, preventing waste and reducing environmental impact."
)

var hoodieVariants = []catalogtypes.VariantInput{
	{Slug: "coral-hoodie", Color: "#FF7F50", Name: "Coral"},
	{Slug: "slate-hoodie", Color: "#708090", Name: "Slate"},
	{Slug: "camel-hoodie", Color: "#C19A6B", Name: "Camel"},
	{Slug: "charcoal-hoodie", Color: "#36454F", Name: "Charcoal"},
	{Slug: "beige-hoodie", Color: "#D4C5B0", Name: "Beige"},
}

var hoodieDetails = []string{
	"Premium fleece construction",
	"Half-zip closure",
	"Ribbed collar, cuffs, and hem",
	"TÊTU embroidered logo",
	"Upcycled luxury deadstock fabric",
	"Includes unique NFT certificate",
}

type seedProduct struct {
	slug, name, colorway string
	discount             int
	images               []string
	details              []string
}

func hoodieDescription(colorway, embroidery string) string {
	return fmt.Sprintf("A premium fleece half-zip hoodie in %s. Crafted from upcycled luxury deadstock fabric, featuring the signature %sTÊTU embroidery. This piece combines comfort with conscious design.", colorway, embroidery)
}

var seedProducts = []seedProduct{
	{slug: "coral-hoodie", name: "Coral Fleece Hoodie", colorway: "a vibrant coral colorway", discount: 15, images: []string{"/images/red_hoodie.png", "/images/red_hoodie_male.png"}},
	{slug: "slate-hoodie", name: "Slate Fleece Hoodie", colorway: "a sophisticated slate blue colorway", images: []string{"/images/blue_hoodie.png"}},
	{slug: "camel-hoodie", name: "Camel Fleece Hoodie", colorway: "a warm camel colorway", images: []string{"/images/camel_hoodie_model.png"}},
	{slug: "charcoal-hoodie", name: "Charcoal Fleece Hoodie", colorway: "a deep charcoal grey colorway", images: []string{"/images/charcoal_hoodie_model.png"}},
	{
		slug: "beige-hoodie", name: "Beige Fleece Hoodie", colorway: "a refined beige colorway with navy blue accents",
		images: []string{"/images/beige_hoodie_model_2.png"},
		details: []string{
			"Premium fleece construction",
			"Half-zip closure",
			"Navy blue ribbed collar, cuffs, and hem",
			"Red TÊTU embroidered logo",
			"Upcycled luxury deadstock fabric",
			"Includes unique NFT certificate",
		},
	},
}

// SeedCatalog creates the launch collection. Slugs already present are left untouched.
func SeedCatalog(ctx context.Context, service catalogports.Service) (int, error) {
	created := 0
	for _, p := range seedProducts {
		if _, err := service.GetBySlug(ctx, catalogtypes.ProductSlug{Slug: p.slug}); err == nil {
			continue
		} else if !errors.Is(err, catalogports.ErrNotFound) {
			return created, fmt.Errorf("seed %s: %w", p.slug, err)
		}
		if _, err := service.CreateProduct(ctx, seedInput(p)); err != nil {
			return created, fmt.Errorf("seed %s: %w", p.slug, err)
		}
		created++
	}
	return created, nil
}

func seedInput(p seedProduct) catalogtypes.CreateProductInput {
	embroidery := ""
	details := hoodieDetails
	if p.details != nil {
		embroidery = "red "
		details = p.details
	}
	images := append([]string{}, p.images...)
	detailsCopy := append([]string{}, details...)
	variants := append([]catalogtypes.VariantInput{}, hoodieVariants...)
	str := func(v string) *string { return &v }
	discount := p.discount
	return catalogtypes.CreateProductInput{ProductMutationInput: catalogtypes.ProductMutationInput{
		Slug:           str(p.slug),
		Name:           str(p.name),
		Price:          str(hoodiePrice),
		Discount:       &discount,
		Image:          str(p.images[0]),
		Images:         &images,
		Description:    str(hoodieDescription(p.colorway, embroidery)),
		Details:        &detailsCopy,
		Composition:    str(hoodieComposition),
		Care:           str(hoodieCare),
		Sizing:         str(hoodieSizing),
		Sustainability: str(hoodieSustain),
		Variants:       &variants,
	}}
}
