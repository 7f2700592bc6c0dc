package pipeline

// forwardFill carries gaps forward in price, sigma and volume independently.
func forwardFill(m matrices) matrices {
	return matrices{
		prices:  m.prices.ForwardFill(),
		sigmas:  m.sigmas.ForwardFill(),
		volumes: m.volumes.ForwardFill(),
		returns: m.returns,
	}
}

// dropLeadRow removes the first row, which nothing earlier can fill.
func dropLeadRow(m matrices) matrices {
	return matrices{
		prices:  m.prices.DropHead(1),
		sigmas:  m.sigmas.DropHead(1),
		volumes: m.volumes.DropHead(1),
		returns: m.returns,
	}
}

// dollarVolume turns share volume into notional volume.
func dollarVolume(m matrices) matrices {
	return matrices{
		prices:  m.prices,
		sigmas:  m.sigmas,
		volumes: m.volumes.Mul(m.prices),
		returns: m.returns,
	}
}

// computeReturns sets returns to the forward-filled simple returns of price
// without their undefined first row.
func computeReturns(m matrices) matrices {
	return matrices{
		prices:  m.prices,
		sigmas:  m.sigmas,
		volumes: m.volumes,
		returns: m.prices.PctChange().ForwardFill().DropHead(1),
	}
}

// excludeRiskFree drops the risk-free column from price, sigma and volume; returns keep it.
func excludeRiskFree(m matrices, symbol string) matrices {
	return matrices{
		prices:  m.prices.DropColumns(symbol),
		sigmas:  m.sigmas.DropColumns(symbol),
		volumes: m.volumes.DropColumns(symbol),
		returns: m.returns,
	}
}
