package indicator

import "BottomScan/internal/domain/service"

// DefaultSet returns the full bottom-detection battery in evaluation order.
func DefaultSet() []service.Indicator {
	return []service.Indicator{
		NewWVFSpike(),
		NewVolumeCapitulation(),
		NewOBVDivergence(),
		NewMFI(),
		NewCMF(),
		NewTripleStochRSI(),
		NewADLineDivergence(),
		NewCompositeOscillator(),
		NewVPT(),
		NewNVIPVI(),
		NewRSISMA200(),
		NewBBStochastic(),
		NewMACDOBVDivergence(),
		NewFibonacciSupport(),
		NewIchimokuRSIOBV(),
		NewKsReversal(),
		NewMACDDivergence(),
	}
}

// DefaultSTier names the indicators strong enough that a couple of their
// hits alone justify external augmentation.
func DefaultSTier() []string {
	return []string{"wvf_spike", "volume_capitulation", "obv_divergence"}
}
