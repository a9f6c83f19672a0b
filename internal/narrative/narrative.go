// Package narrative holds the authored text of the sales report: the title
// page and, for every section, its heading, intro line, chart labels and
// caption.
//
// The text is static. It is not derived from the data, so the figures it
// quotes describe the full September 2023 to September 2024 dataset.
// Config files may override any of it per section.
package narrative

import "github.com/nao1215/storeeda/internal/model"

// Title is the report title.
const Title = "Data Visualization of an Electronic Store between September 2023 - September 2024"

// Authors lists the report authors. The first entry names the group.
var Authors = []string{
	"Group 1 BM3",
	"John Kenneth Alon",
	"Rob Eugene Dequinon",
	"Neil Mediavillo",
	"Emmanuel Villanosa",
	"Ezekiel Martin",
}

// Description introduces the dataset.
const Description = "Listed below is the data provided by the dataset. It includes the " +
	"customer ID, age, gender, loyalty number, product type, SKU, rating, order status, " +
	"payment method, total price, unit price, quantity, purchase date, shipping type, " +
	"add-ons purchased, and add-on total."

// NoDataNote replaces the chart of a section whose step produced nothing.
const NoDataNote = "No data available to plot."

// Text is the authored content of one section.
type Text struct {
	Heading    string   `yaml:"heading,omitempty"`
	Intro      string   `yaml:"intro,omitempty"`
	Caption    string   `yaml:"caption,omitempty"`
	ChartTitle string   `yaml:"chartTitle,omitempty"`
	XLabel     string   `yaml:"xLabel,omitempty"`
	YLabel     string   `yaml:"yLabel,omitempty"`
	Colors     []string `yaml:"colors,omitempty"`
}

// Merge returns t with every non-empty field of override applied.
func (t Text) Merge(override Text) Text {
	if override.Heading != "" {
		t.Heading = override.Heading
	}
	if override.Intro != "" {
		t.Intro = override.Intro
	}
	if override.Caption != "" {
		t.Caption = override.Caption
	}
	if override.ChartTitle != "" {
		t.ChartTitle = override.ChartTitle
	}
	if override.XLabel != "" {
		t.XLabel = override.XLabel
	}
	if override.YLabel != "" {
		t.YLabel = override.YLabel
	}
	if len(override.Colors) > 0 {
		t.Colors = append([]string(nil), override.Colors...)
	}
	return t
}

// Apply copies the text into a section.
func (t Text) Apply(s *model.Section) {
	s.Heading = t.Heading
	s.Intro = t.Intro
	s.Caption = t.Caption
	s.ChartTitle = t.ChartTitle
	s.XLabel = t.XLabel
	s.YLabel = t.YLabel
	s.Colors = append([]string(nil), t.Colors...)
}

// For returns the built-in text of a step. Unknown steps get an empty Text.
func For(step string) Text {
	t := builtin[step]
	t.Colors = append([]string(nil), t.Colors...)
	return t
}

// Set maps step names to section text.
type Set map[string]Text

// Builtin returns a copy of every built-in section text.
func Builtin() Set {
	out := make(Set, len(builtin))
	for step := range builtin {
		out[step] = For(step)
	}
	return out
}

// Text returns the text for step from the set, falling back to the built-in
// text for steps the set does not mention.
func (s Set) Text(step string) Text {
	if t, ok := s[step]; ok {
		return t
	}
	return For(step)
}

var builtin = map[string]Text{
	model.StepOverview: {
		Heading: "Dataset Overview",
		Intro:   "Column types, missing values and descriptive statistics of the numeric columns.",
	},
	model.StepAgeQuantity: {
		Heading:    "Correlation between the age of the customer and the number of units they purchase",
		Intro:      "Records the amount of units each age group from 18 to 80 years old.",
		ChartTitle: "Correlation between the age of the customer and the number of units they purchase",
		XLabel:     "Age",
		YLabel:     "Quantity",
		Colors:     []string{"#008000"},
		Caption: "This bar graph displays the correlation of the number of units that clients " +
			"of various ages purchase. The age ranges up from 18 to 30 years & 71 to 80 years " +
			"old. The number of units purchased by each age group is shown by each green bar. " +
			"With about 9000 units, the youngest group (18-30) makes the most purchases. The " +
			"following age group (31-40) sees a significant decline in numbers, whereas the " +
			"middle-aged groups see rather stable levels. It's interesting to note that the " +
			"oldest group has a minor decline followed by a small gain for those aged 61 to 70. " +
			"All things considered, the graph indicates that although young adults purchase a " +
			"great deal more, other age groups' spending patterns are largely unchanged, with a " +
			"few small exceptions.",
	},
	model.StepMonthlyRevenue: {
		Heading:    "Monthly Revenue",
		Intro:      "Tracks the total sales of the store every month, from September 2023 - September 2024",
		ChartTitle: "Monthly Revenue",
		XLabel:     "Months",
		YLabel:     "Total Revenue",
		Colors:     []string{"#0000ff"},
		Caption: "The monthly revenue from September 2023 to September 2024 is displayed in this " +
			"line graph. The monthly sales are shown by the blue line. September 2023 has a low " +
			"level of revenue, which increases in October and remains rather constant through " +
			"December. January 2024 shows a significant increase in sales, which peak during that " +
			"month. After then, monthly revenue varies little but stays high. In September 2024, " +
			"the last month, there is a discernible decline. The revenue pattern is generally " +
			"upward, as seen by the graph, with a notable increase at the beginning of 2024, high " +
			"sales that are reasonably consistent throughout the majority of the year, and a " +
			"decline towards the end.",
	},
	model.StepProductSales: {
		Heading: "Sales according to Product Type",
		Intro: "Records the total price of each product type namely, headphones, laptops, " +
			"smartphones, smartwatches, and tablets",
		ChartTitle: "Sales by Product Type",
		XLabel:     "Product Type",
		YLabel:     "Total Sales (Sum of Total Price)",
		Colors:     []string{"#a6cee3", "#1f78b4", "#b2df8a", "#33a02c", "#fb9a99", "#e31a1c", "#fdbf6f", "#ff7f00"},
		Caption: "This bar chart shows the overall sales generated by each product. The graph " +
			"portrays the dominant performance of Smartphones, generating over 14.4 million in " +
			"sales. Along with that, the second highest generated sales are Smartwatches with " +
			"sales exceeding 9.3 million, followed by Laptops generating 8.3 million, and Tablets " +
			"generating 7.7 million. Lastly, Headphones are lagging behind with the lowest sales, " +
			"just over 2.7 million. Therefore, we can positively conclude the high demand and usage " +
			"of Smartphones compared to other electronic devices and gadgets.",
	},
	model.StepShippingSales: {
		Heading: "Total Sales according to Shipping Type",
		Intro: "Keeps track of which Shipping Type is being used the most, namely between " +
			"expedited, same day, standard, express, and overnight",
		ChartTitle: "Total Sales by Shipping Type",
		Colors:     []string{"#87ceeb", "#0000ff"},
		Caption: "A radar chart is used to illustrate the total sales throughout all shipping " +
			"types. With sales of more than 14.3 million, standard shipping excels above any other " +
			"shipping types. In second place with almost 8.4 million in sales is expedited " +
			"shipping. Just behind with over 8.2 million is Same Day shipping. Sales of overnight " +
			"delivery are slightly higher than 5.8 million, while Express's sales are little lower " +
			"at 5.6 million. Express shipping has the lowest sales compared to Standard shipping " +
			"which performs best overall.",
	},
	model.StepAddOns: {
		Heading: "Add-ons Purchased Popularity",
		Intro: "Showcases the most purchased add-on, between impulse item, warranty accessory, " +
			"extended warranty, warranty impulse, accessory, item accessory, item extended, " +
			"accessory extended",
		ChartTitle: "Add-ons Purchased Popularity",
		Caption: "Using word cloud visualization, the chart represents the frequency of different " +
			"add-ons purchased by customers from the data, the word cloud emphasizes more frequent " +
			"purchases with larger, bolder text. Less frequent purchases appear smaller and less " +
			"prominent. The chart highlights which add-ons are more popular among customers, " +
			"showcased in a way to easily understand purchasing trends without needing to analyze " +
			"raw data. It can be concluded that the \"Impulse Item\" add-on was favored by many " +
			"customers based on the data.",
	},
	model.StepRatings: {
		Heading: "Ratings per Product Type",
		Intro: "Records the ratings for each product type, namely the headphones, tablet, " +
			"smartphones, smartwatches, laptops",
		ChartTitle: "Ratings per Product Type",
		XLabel:     "Product Type",
		YLabel:     "Rating",
		Colors:     []string{"#fbb4ae", "#b3cde3", "#ccebc5", "#decbe4", "#fed9a6", "#ffffcc", "#e5d8bd", "#fddaec"},
		Caption: "Using a violin plot, we are able to visualize the distribution of product " +
			"ratings across different product types. The width of the violin represents the " +
			"frequency of ratings at that value, with wider sections indicating more common " +
			"ratings. The plot highlights each product type that is rated by customers, which " +
			"helps identify trends such as which products tend to receive higher or lower " +
			"ratings. It can be concluded that the \"Headphones\" product type seemed to obtain " +
			"the most balanced ratings out of all.",
	},
	model.StepGenderSplit: {
		Heading:    "Percentage of Customers from the Two Sexes",
		Intro:      "Shows how much of the customers are male and female",
		ChartTitle: "Percentage of Buyers from Two Sexes",
		Colors:     []string{"#75d2dd", "#f7adef"},
		Caption: "Using a Pie Chart, we can see the total number of customers of each sex " +
			"(Gender). There's really no need of a deep explanation here, almost a 50-50 split " +
			"between the two sexes, 50.8% of the customers are Male, while 49.2% are Female " +
			"customers. This comes as no surprise as the modern world is filled with diverse " +
			"people with diverse interests. Additionally, everyone has some tech device, not just " +
			"a majority set of people.",
	},
	model.StepGenderSpend: {
		Heading:    "Total spendings by the Two Sexes",
		Intro:      "Shows how much each of the two sexes, male and female, spend on the store",
		ChartTitle: "Total Spendings of Two Sexes",
		XLabel:     "Gender",
		YLabel:     "Total Sum of Spendings (Total Price)",
		Colors:     []string{"#edff7b", "#b896ff"},
		Caption: "In this graph, a Bar Chart represents the total spendings of each sex " +
			"(Gender). Getting the sum of the Total Price from the data set, we come to the " +
			"conclusion that Male customers spend slightly more than Female customers.",
	},
	model.StepOrderStatus: {
		Heading:    "Order Status",
		Intro:      "Shows what percentage of orders were completed or cancelled",
		ChartTitle: "Order Status",
		Colors:     []string{"#87ceeb", "#ff0000"},
		Caption: "The order status dictates whether a customer who has purchased or ordered a " +
			"product has cancelled their transaction. With 67.2% completing their order, it shows " +
			"that the majority of customers successfully followed through with their purchases, " +
			"while the remaining 32.8% cancelled. This means that a significant portion of " +
			"customers either changed their minds or encountered an issue that led them to cancel " +
			"their transactions. Understanding why this cancellation rate exists could be key to " +
			"improving customer experience, addressing potential barriers during the purchasing " +
			"process, and ultimately increasing the completion rate in future transactions.",
	},
	model.StepPaymentMethods: {
		Heading: "Distribution of Payment Methods",
		Intro: "Records which of the payment methods, credit card, paypal, bank transfer, cash, " +
			"and debit card, are used the most",
		ChartTitle: "Distribution of Payment Methods",
		XLabel:     "Payment Method",
		YLabel:     "Number of Transactions",
		Colors:     []string{"#87ceeb"},
		Caption: "The data shows that customers primarily prefer using credit card and PayPal " +
			"for their transactions, with both methods almost equally popular. Bank transfers are " +
			"the third most common payment method, followed by cash and debit card, which are the " +
			"least utilized. This suggests that digital and secure payment options are favored by " +
			"most customers, while traditional methods like cash and debit cards are less commonly " +
			"used.",
	},
}
