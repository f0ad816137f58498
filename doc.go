// Package boardctl drives a development board's control signals through its
// FTDI USB bridge: button lines, power-good sensing, and the bridge's
// configuration EEPROM. Pin assignments come from a board Profile.
//
// # References:
//
// FTDI (https://ftdichip.com/document/application-notes/)
//   - [FTDI-AN_232R-01]: Bit Bang Modes for the FT232R and FT245R (https://ftdichip.com/wp-content/uploads/2020/08/AN_232R-01_Bit_Bang_Mode_Available_For_FT232R_and_Ft245R.pdf)
//   - [FTDI-AN_135]: FTDI MPSSE Basics (https://ftdichip.com/wp-content/uploads/2020/08/AN_135_MPSSE_Basics.pdf)
//   - [FTDI-DS_FT4232H]: FT4232H Quad High Speed USB to Multipurpose UART/MPSSE IC (https://ftdichip.com/wp-content/uploads/2020/08/DS_FT4232H.pdf)
//   - [FTDI-DS_FT2232H]: FT2232H Hi-Speed Dual USB UART/FIFO IC Data Sheet (https://ftdichip.com/wp-content/uploads/2024/09/DS_FT2232H.pdf)
//
// Connection identifiers
//   - [pyftdi URL scheme]: https://eblot.github.io/pyftdi/urlscheme.html
package boardctl
