package query

var Tours = NewSchema("tours",
	[]SortField{{Field: "createdAt", Desc: true}, {Field: "name"}},
	Field{Name: "id", Key: "_id", Kind: KindString},
	Field{Name: "name", Kind: KindString},
	Field{Name: "slug", Kind: KindString},
	Field{Name: "duration", Kind: KindNumber},
	Field{Name: "maxGroupSize", Column: "max_group_size", Kind: KindNumber},
	Field{Name: "difficulty", Kind: KindString},
	Field{Name: "ratingsAverage", Column: "ratings_average", Kind: KindNumber},
	Field{Name: "ratingsQuantity", Column: "ratings_quantity", Kind: KindNumber},
	Field{Name: "price", Kind: KindNumber},
	Field{Name: "priceDiscount", Column: "price_discount", Kind: KindNumber},
	Field{Name: "summary", Kind: KindString},
	Field{Name: "description", Kind: KindString},
	Field{Name: "imageCover", Column: "image_cover", Kind: KindString},
	Field{Name: "createdAt", Column: "created_at", Kind: KindTime},
	Field{Name: "secretTour", Column: "secret_tour", Kind: KindBool},
	Field{Name: "version", Key: "__v", Kind: KindNumber},
	Field{Name: "images", Kind: KindDocument},
	Field{Name: "startDates", Column: "start_dates", Kind: KindDocument},
	Field{Name: "startLocation", Column: "start_location", Kind: KindDocument},
	Field{Name: "locations", Kind: KindDocument},
	Field{Name: "guideIds", Column: "guides", Key: "guides", Kind: KindDocument},
)

var Reviews = NewSchema("reviews",
	[]SortField{{Field: "createdAt", Desc: true}},
	Field{Name: "id", Key: "_id", Kind: KindString},
	Field{Name: "review", Kind: KindString},
	Field{Name: "rating", Kind: KindNumber},
	Field{Name: "createdAt", Column: "created_at", Kind: KindTime},
	Field{Name: "tour", Column: "tour_id", Kind: KindString},
	Field{Name: "user", Column: "user_id", Kind: KindString},
	Field{Name: "version", Key: "__v", Kind: KindNumber},
)
