package domain

// SampleSop is a starter SOP seeded into a fresh install
type SampleSop struct {
	CategoryName string
	Title        string
	Content      string
	Evidence     []string
}

// SampleSops give chat something to ground on before administrators write their own
var SampleSops = []SampleSop{
	{
		CategoryName: "Damaged",
		Title:        "Damaged Item Return Process",
		Content: `**DAMAGED ITEM RETURN SOP**

**Step 1: Evidence Verification**
- Review customer's evidence photos
- Check if damage is clearly visible and conclusive
- Verify packaging condition

**Step 2: Evidence Assessment**
- CONCLUSIVE: Clear damage visible, proper packaging photos
- INCONCLUSIVE: Blurry photos, insufficient angles, missing packaging shots

**Step 3: Action Steps**
- If conclusive: Approve return immediately
- If inconclusive: Request additional evidence
- Process refund within 24 hours of approval

**Step 4: Communication Template**
"Thank you for contacting us. We've reviewed your case regarding the damaged item. [Based on evidence assessment, provide appropriate response]"`,
		Evidence: []string{
			"Clear photos of damaged item from multiple angles",
			"Photos of original packaging",
			"Unboxing video (if available)",
		},
	},
	{
		CategoryName: "Wrong",
		Title:        "Wrong Item Received Process",
		Content: `**WRONG ITEM RETURN SOP**

**Step 1: Item Verification**
- Compare ordered item with received item
- Check SKU and product details
- Verify seller information

**Step 2: Evidence Assessment**
- CONCLUSIVE: Clear difference between ordered and received item
- INCONCLUSIVE: Similar items, unclear product details

**Step 3: Resolution Process**
- Approve return for wrong item cases
- Arrange return shipping (seller responsibility)
- Process replacement or refund

**Step 4: Follow-up Actions**
- Monitor seller for repeated wrong item issues
- Update seller performance metrics`,
		Evidence: []string{
			"Photo of received item with clear product details",
			"Photo of order confirmation or receipt",
			"Comparison with original listing",
		},
	},
	{
		CategoryName: "Counterfeit",
		Title:        "Counterfeit Product Investigation",
		Content: `**COUNTERFEIT PRODUCT SOP**

**Step 1: Initial Assessment**
- Review customer's counterfeit claims
- Check product authenticity indicators
- Verify brand authorization

**Step 2: Brand Verification**
- Contact brand representative if needed
- Check official brand guidelines
- Verify authorized seller list

**Step 3: Decision Process**
- If confirmed counterfeit: Immediate removal and refund
- If inconclusive: Request expert verification
- If authentic: Provide explanation to customer

**Step 4: Seller Actions**
- Suspend seller if counterfeit confirmed
- Report to relevant authorities
- Monitor seller's other listings`,
		Evidence: []string{
			"Detailed photos of product and packaging",
			"Comparison with authentic product images",
			"Serial numbers or authenticity codes",
		},
	},
}
