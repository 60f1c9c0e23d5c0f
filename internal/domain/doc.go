// Package domain models methane-explosion risk at the Piyungan landfill (TPA).
//
// # Data Sources
//
// Four tables are handed to the core after loading:
//
//	Incidents:   Tanggal Kejadian, Kandungan Metan (%), Suhu (C), Kelembaban (%),
//	             Kepadatan/Densitas (kg/m)
//	Temperature: Tahun, Bulan January .. Bulan December (monthly averages, °C)
//	Humidity:    Tahun, Bulan January .. Bulan December (monthly averages, %)
//	Waste:       Kabupaten/Kota, Tahun, Timbulan Sampah Tahunan(ton)
//
// Incident dates use the layout "Monday,January 02,2006", e.g. "Friday,March 01,2019".
//
// Numeric incident columns are recorded inconsistently. A cell may hold a number,
// a range such as "10-20" (read as the mean of both ends, 15), or free text. Free
// text becomes an explicit missing value after [Normalize]; it is never zero.
//
// # Lookups
//
// Waste for a year is the summed tonnage of the latest recorded year at or before
// it. Years before all records fall back to the mean annual tonnage of the
// canonical aggregate region "Kartamantul-gupro". Temperature and humidity are
// read from the monthly table row for the query year; a missing row is reported
// as a fallback warning, never substituted silently.
//
// # Physical Model
//
//	methane %     = 50 × tonnage / 1000
//	density       = mass / (125 000 m² × 5 m)
//	emission rate = tonnage × DOC 0.6 × DOCF 0.2 × F 0.5 × 16/12   (tons/year)
//
// Tonnage stands in for the methane correction factor (MCF) in this simplified
// emission model, and the waste mass fed to the density formula is the tonnage
// figure itself.
//
// # Classification
//
// Methane level is ranked against the incident baseline (median, max):
//
//	≥ max          very high
//	= median       fairly high
//	< median       low
//	otherwise      elevated (between median and max)
//
// Explosion risk requires all four factors in the same band:
//
//	high:    methane > 40, temperature > 30, humidity > 60, density > 400
//	medium:  20 < methane ≤ 40, 25 < temperature ≤ 30, 50 < humidity ≤ 60, 200 < density ≤ 400
//
// Anything else is relatively safe with periodic monitoring advised.
package domain
