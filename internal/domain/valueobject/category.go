package valueobject

type CategorySlug string

const (
	CategoryCars        CategorySlug = "cars"
	CategoryRealEstate  CategorySlug = "real-estate"
	CategoryElectronics CategorySlug = "electronics"
	CategoryMobiles     CategorySlug = "mobiles"
	CategoryFurniture   CategorySlug = "furniture"
	CategoryJobs        CategorySlug = "jobs"
	CategoryServices    CategorySlug = "services"
	CategoryFashion     CategorySlug = "fashion"
	CategoryAnimals     CategorySlug = "animals"
	// CategoryMissing - категория без схемы, допускает любые атрибуты.
	CategoryMissing CategorySlug = "missing"
)

var CategorySlugs = []CategorySlug{
	CategoryCars,
	CategoryRealEstate,
	CategoryElectronics,
	CategoryMobiles,
	CategoryFurniture,
	CategoryJobs,
	CategoryServices,
	CategoryFashion,
	CategoryAnimals,
	CategoryMissing,
}

func (c CategorySlug) IsKnown() bool {
	for _, s := range CategorySlugs {
		if s == c {
			return true
		}
	}
	return false
}

func (c CategorySlug) IsSchemaFree() bool {
	return c == CategoryMissing
}

func (c CategorySlug) String() string {
	return string(c)
}
